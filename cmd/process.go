package cmd

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/btraven00/korpus/internal/corpus"
	"github.com/btraven00/korpus/internal/pipeline"
)

var showProgress bool

var processCmd = &cobra.Command{
	Use:   "process <input>...",
	Short: "Run the corpus pipeline over per-language document batches",
	Long: `Process reads batches of scraped documents (JSON array or JSON Lines of
{id, url, title, raw_text}) and writes one <lang>.json file per language with
the sentences that survive the pipeline.

The language of a batch is taken from --lang or from the input file name
(olo.jsonl is processed with the Livvi profile). Inputs that resolve to the
same language are concatenated in argument order. A failing language does not
stop the others; all failures are reported at the end.

Examples:
  korpus process olo.jsonl vep.jsonl --out-dir corpus/
  korpus process --lang olo --workers 8 livvi-wiki.json
  korpus process --filter=false --norm=false olo.jsonl`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().String("out-dir", ".", "directory for <lang>.json output files")
	processCmd.Flags().IntP("workers", "w", pipeline.DefaultWorkers, "number of parallel workers")
	processCmd.Flags().BoolVar(&showProgress, "progress", false, "show a progress line on stderr")

	cobra.CheckErr(viper.BindPFlag("out-dir", processCmd.Flags().Lookup("out-dir")))
	cobra.CheckErr(viper.BindPFlag("workers", processCmd.Flags().Lookup("workers")))
}

// batch groups the inputs of one language.
type batch struct {
	Lang   string
	Inputs []string
}

// LanguageReport summarizes one processed language.
type LanguageReport struct {
	Lang   string              `json:"lang"`
	Inputs []string            `json:"inputs"`
	Output string              `json:"output,omitempty"`
	Error  string              `json:"error,omitempty"`
	Stats  pipeline.BatchStats `json:"stats"`
}

// groupInputs assigns every input to a language, keeping first-seen order.
func groupInputs(inputs []string, lang string) []batch {
	var batches []batch
	index := make(map[string]int)

	for _, in := range inputs {
		code := lang
		if code == "" {
			code = languageFromPath(in)
		}

		i, ok := index[code]
		if !ok {
			i = len(batches)
			index[code] = i
			batches = append(batches, batch{Lang: code})
		}
		batches[i].Inputs = append(batches[i].Inputs, in)
	}

	return batches
}

func runProcess(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	outDir := viper.GetString("out-dir")
	workers := viper.GetInt("workers")

	var errs error
	var reports []LanguageReport

	for _, b := range groupInputs(args, settings.Lang) {
		report, err := processBatch(cmd, b, settings, outDir, workers)
		if err != nil {
			err = fmt.Errorf("language '%s': %w", b.Lang, err)
			report.Error = err.Error()
			errs = multierr.Append(errs, err)
			log.WithError(err).WithField("lang", b.Lang).Error("Batch failed")
		}
		reports = append(reports, report)
	}

	if err := printReports(cmd, reports); err != nil {
		errs = multierr.Append(errs, err)
	}

	return errs
}

func processBatch(cmd *cobra.Command, b batch, settings Settings, outDir string, workers int) (LanguageReport, error) {
	report := LanguageReport{Lang: b.Lang, Inputs: b.Inputs}

	pl, err := newPipeline(b.Lang, settings)
	if err != nil {
		return report, err
	}

	var docs []*corpus.RawDocument
	for _, in := range b.Inputs {
		batchDocs, err := corpus.ReadDocumentsFile(in)
		if err != nil {
			return report, err
		}
		docs = append(docs, batchDocs...)
	}

	logger := log.WithFields(logrus.Fields{"lang": b.Lang, "documents": len(docs)})
	logger.Info("Processing batch")

	var opts []pipeline.BatchOption
	if showProgress && !quiet {
		tracker := pipeline.NewProgressTracker()
		opts = append(opts, pipeline.WithProgress(func(update pipeline.ProgressUpdate) {
			tracker.Update(update)
			tracker.PrintProgress(cmd.ErrOrStderr())
		}))
		defer fmt.Fprintln(cmd.ErrOrStderr())
	}

	kept, stats, err := pipeline.RunBatch(cmd.Context(), pl, docs, workers, opts...)
	report.Stats = stats
	if err != nil {
		return report, err
	}

	if stats.Failed > 0 {
		logger.WithField("failed", stats.Failed).Warn("Failed documents were left out of the output")
	}

	path := filepath.Join(outDir, b.Lang+".json")
	if err := corpus.WriteDocumentsFile(path, kept); err != nil {
		return report, err
	}
	report.Output = path

	logger.WithFields(logrus.Fields{
		"kept":      stats.Kept,
		"dropped":   stats.Dropped,
		"sentences": stats.Sentences,
		"output":    path,
		"elapsed":   stats.Elapsed.Round(time.Millisecond).String(),
	}).Info("Batch written")

	return report, nil
}

func printReports(cmd *cobra.Command, reports []LanguageReport) error {
	out := cmd.OutOrStdout()

	if output == "json" {
		return corpus.NewEncoder(out).Encode(reports)
	}

	if quiet {
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LANG\tDOCS\tKEPT\tDROPPED\tFAILED\tSENTENCES\tOUTPUT")
	for _, r := range reports {
		dest := r.Output
		if r.Error != "" {
			dest = "error: " + r.Error
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			r.Lang, r.Stats.Total, r.Stats.Kept, r.Stats.Dropped, r.Stats.Failed, r.Stats.Sentences, dest)
	}

	return w.Flush()
}
