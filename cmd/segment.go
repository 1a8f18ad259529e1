package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/btraven00/korpus/internal/corpus"
	"github.com/btraven00/korpus/internal/filter"
)

var segmentCmd = &cobra.Command{
	Use:   "segment [file]",
	Short: "Split a single text into corpus sentences",
	Long: `Segment runs the pipeline over one text and prints the resulting sentences,
one per line. The text is read from the file argument or from stdin. Plain
text files (.txt, .md) are read as is; other documents (.html, .pdf, .docx,
.odt, ...) are converted to text first.

With --filter (the default) only sentences that pass the validity filter are
printed; the document-level title check does not apply.

Examples:
  korpus segment --lang olo article.txt
  korpus segment --lang vep --filter=false page.html
  cat text.txt | korpus segment --lang olo --output json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSegment,
}

func init() {
	rootCmd.AddCommand(segmentCmd)
}

func runSegment(cmd *cobra.Command, args []string) error {
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

	sentences := pl.Sentences(text)
	if pl.Filtering() {
		sentences = filter.Sentences(sentences, pl.Profile(), pl.Policy())
	}

	log.WithField("sentences", len(sentences)).Debug("Text segmented")

	out := cmd.OutOrStdout()
	if output == "json" {
		if sentences == nil {
			sentences = []string{}
		}
		return corpus.NewEncoder(out).Encode(sentences)
	}

	for _, s := range sentences {
		fmt.Fprintln(out, s)
	}

	return nil
}
