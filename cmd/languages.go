package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/btraven00/korpus/internal/corpus"
	"github.com/btraven00/korpus/internal/profile"
)

var (
	languagesJSON   bool
	languagesDetail bool
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the registered language profiles",
	Long: `Languages lists the language profiles known to the pipeline: the built-in
Livvi, Veps, Karelian Proper and Ludian profiles plus any loaded with
--profiles.

Examples:
  korpus languages
  korpus languages --detail
  korpus languages --json`,
	Args: cobra.NoArgs,
	RunE: runLanguages,
}

func init() {
	rootCmd.AddCommand(languagesCmd)

	languagesCmd.Flags().BoolVar(&languagesJSON, "json", false, "output as JSON")
	languagesCmd.Flags().BoolVarP(&languagesDetail, "detail", "d", false, "show appendix headings and stop phrases")
}

// LanguageInfo describes a registered profile.
type LanguageInfo struct {
	Code             string   `json:"code"`
	Name             string   `json:"name"`
	Aliases          []string `json:"aliases"`
	Splitter         string   `json:"splitter"`
	Alphabet         string   `json:"alphabet"`
	Abbreviations    int      `json:"abbreviations"`
	StopPhrases      []string `json:"stop_phrases"`
	AppendixHeadings []string `json:"appendix_headings"`
}

func languageInfo(p *profile.Profile) LanguageInfo {
	return LanguageInfo{
		Code:             p.Code(),
		Name:             p.Name(),
		Aliases:          p.Aliases(),
		Splitter:         p.SplitterLanguage(),
		Alphabet:         p.Alphabet(),
		Abbreviations:    len(p.Abbreviations()),
		StopPhrases:      p.StopPhrases(),
		AppendixHeadings: p.AppendixHeadings(),
	}
}

func runLanguages(cmd *cobra.Command, args []string) error {
	profiles := profile.List()

	infos := make([]LanguageInfo, 0, len(profiles))
	for _, p := range profiles {
		infos = append(infos, languageInfo(p))
	}

	out := cmd.OutOrStdout()

	if languagesJSON || output == "json" {
		result := struct {
			Languages []LanguageInfo `json:"languages"`
			Count     int            `json:"count"`
		}{
			Languages: infos,
			Count:     len(infos),
		}
		return corpus.NewEncoder(out).Encode(result)
	}

	if len(infos) == 0 {
		fmt.Fprintln(out, "No language profiles are registered.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tALIASES\tSPLITTER\tABBREVIATIONS")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			info.Code, info.Name, strings.Join(info.Aliases, ","), info.Splitter, info.Abbreviations)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !languagesDetail {
		return nil
	}

	for _, info := range infos {
		fmt.Fprintf(out, "\n%s (%s)\n", info.Name, info.Code)
		fmt.Fprintf(out, "  Alphabet:          %s\n", info.Alphabet)
		fmt.Fprintf(out, "  Appendix headings: %s\n", joinOrNone(info.AppendixHeadings))
		fmt.Fprintf(out, "  Stop phrases:      %s\n", joinOrNone(info.StopPhrases))
	}

	return nil
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, "; ")
}
