package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/btraven00/korpus/internal/corpus"
	"github.com/btraven00/korpus/internal/pipeline"
)

var traceTitle string

var traceCmd = &cobra.Command{
	Use:   "trace [file]",
	Short: "Show the output of every pipeline stage for one text",
	Long: `Trace runs the pipeline over one text and prints what each stage produced:
the text after appendix stripping and normalization, the raw splitter
segments, the merged segments, the isolated sentences and the sentences that
passed the filter, followed by the document decision.

Examples:
  korpus trace --lang olo article.txt
  korpus trace --lang olo --title "Kirjalližusluvettelo" article.txt
  korpus trace --lang vep --output json page.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTrace,
}

func init() {
	rootCmd.AddCommand(traceCmd)
	traceCmd.Flags().StringVar(&traceTitle, "title", "", "document title used by the stop-phrase check")
}

func runTrace(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	if settings.Lang == "" {
		return fmt.Errorf("--lang is required")
	}

	pl, err := newPipeline(settings.Lang, settings)
	if err != nil {
		return err
	}

	var path string
	if len(args) > 0 {
		path = args[0]
	}

	text, err := readText(path, cmd.InOrStdin())
	if err != nil {
		return err
	}

	tr := pl.Trace(&corpus.RawDocument{Title: traceTitle, RawText: text})

	if output == "json" {
		return corpus.NewEncoder(cmd.OutOrStdout()).Encode(tr)
	}

	printTrace(cmd.OutOrStdout(), pl, tr)
	return nil
}

func printTrace(w io.Writer, pl *pipeline.Pipeline, tr pipeline.Trace) {
	p := pl.Profile()
	fmt.Fprintf(w, "=== Trace: %s (%s) ===\n\n", p.Name(), p.Code())

	fmt.Fprintf(w, "--- Raw (%d bytes) ---\n%s\n\n", len(tr.Raw), tr.Raw)

	if len(tr.Stripped) < len(tr.Raw) {
		fmt.Fprintf(w, "--- Appendix stripped (%d bytes removed) ---\n%s\n\n", len(tr.Raw)-len(tr.Stripped), tr.Stripped)
	} else {
		fmt.Fprintf(w, "--- Appendix stripped (no appendix found) ---\n\n")
	}

	if pl.Normalizing() {
		fmt.Fprintf(w, "--- Normalized ---\n%s\n\n", tr.Normalized)
	} else {
		fmt.Fprintf(w, "--- Normalized (disabled) ---\n\n")
	}

	printStage(w, "Segments", tr.Segments)
	printStage(w, "Merged", tr.Merged)
	printStage(w, "Isolated", tr.Isolated)

	if pl.Filtering() {
		printStage(w, "Valid", tr.Valid)
	} else {
		fmt.Fprintf(w, "--- Valid (filter disabled) ---\n\n")
	}

	verdict := "kept"
	if !tr.Kept {
		verdict = "dropped"
	}
	fmt.Fprintf(w, "Document: %s (%s)\n", verdict, tr.Reason)
}

func printStage(w io.Writer, name string, items []string) {
	fmt.Fprintf(w, "--- %s (%d) ---\n", name, len(items))
	for i, item := range items {
		fmt.Fprintf(w, "%3d. %q\n", i+1, item)
	}
	fmt.Fprintln(w)
}
