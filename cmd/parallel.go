package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/btraven00/korpus/internal/corpus"
)

var (
	parallelOutDir string
	writePairs     bool
)

var parallelCmd = &cobra.Command{
	Use:   "parallel <input>...",
	Short: "Normalize parallel dictionary-corpus texts",
	Long: `Parallel reads dictionary-corpus records (numbered sentences with optional
numbered translations) and writes them back with every sentence and
translation normalized: mojibake spaces and line breaks are replaced and
repeated spaces collapsed.

Each input is written to <out-dir>/<name>.json. With --pairs the aligned
sentence/translation pairs are also written to <out-dir>/<name>.pairs.json;
sentences without a translation are left out. The language is taken from
--lang or from the input file name and must be a registered profile.

Examples:
  korpus parallel --lang vep vepkar.json --out-dir parallel/
  korpus parallel krl.jsonl lud.jsonl --out-dir parallel/
  korpus parallel --pairs vep.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParallel,
}

func init() {
	rootCmd.AddCommand(parallelCmd)
	parallelCmd.Flags().StringVar(&parallelOutDir, "out-dir", "parallel", "directory for normalized output files")
	parallelCmd.Flags().BoolVar(&writePairs, "pairs", false, "also write aligned sentence pairs to <name>.pairs.json")
}

func runParallel(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	var errs error
	for _, in := range args {
		if err := processParallelFile(in, settings); err != nil {
			err = fmt.Errorf("%s: %w", in, err)
			log.WithError(err).Error("Parallel input failed")
			errs = multierr.Append(errs, err)
		}
	}

	return errs
}

func processParallelFile(in string, settings Settings) error {
	lang := settings.Lang
	if lang == "" {
		lang = languageFromPath(in)
	}

	pl, err := newPipeline(lang, settings)
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	outPath := filepath.Join(parallelOutDir, name+".json")
	pairsPath := filepath.Join(parallelOutDir, name+".pairs.json")

	for _, path := range []string{outPath, pairsPath} {
		if same, err := samePath(in, path); err != nil {
			return err
		} else if same {
			return fmt.Errorf("output %s would overwrite the input", path)
		}
	}

	docs, err := corpus.ReadParallelFile(in)
	if err != nil {
		return err
	}

	out := make([]*corpus.ParallelDocument, 0, len(docs))
	pairs := []corpus.SentencePair{}
	sentences := 0
	for _, doc := range docs {
		norm := pl.ProcessParallel(doc)
		sentences += len(norm.Text)
		out = append(out, norm)
		pairs = append(pairs, norm.Pairs()...)
	}

	if err := corpus.WriteFile(outPath, out); err != nil {
		return err
	}

	logger := log.WithFields(logrus.Fields{
		"lang":      lang,
		"documents": len(out),
		"sentences": sentences,
	})
	logger.WithField("output", outPath).Info("Parallel documents written")

	if writePairs {
		if err := corpus.WriteFile(pairsPath, pairs); err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{"pairs": len(pairs), "output": pairsPath}).Info("Sentence pairs written")
	}

	return nil
}

func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	return absA == absB, nil
}
