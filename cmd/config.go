package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv/v2"
	"github.com/spf13/viper"

	"github.com/btraven00/korpus/internal/filter"
	"github.com/btraven00/korpus/internal/normalize"
	"github.com/btraven00/korpus/internal/pipeline"
	"github.com/btraven00/korpus/internal/profile"
)

// Settings are the pipeline options resolved from flags, config file and
// environment.
type Settings struct {
	Lang      string        `json:"lang"`
	Normalize bool          `json:"norm"`
	Filter    bool          `json:"filter"`
	Rules     string        `json:"rules"`
	Policy    filter.Policy `json:"policy"`
}

func loadSettings() (Settings, error) {
	s := Settings{
		Lang:      strings.TrimSpace(viper.GetString("lang")),
		Normalize: viper.GetBool("norm"),
		Filter:    viper.GetBool("filter"),
		Rules:     viper.GetString("rules"),
		Policy: filter.Policy{
			MaxForeignRatio: viper.GetFloat64("max-foreign-ratio"),
			MinLength:       viper.GetInt("min-length"),
		},
	}

	if s.Policy.MaxForeignRatio < 0 {
		return s, fmt.Errorf("max-foreign-ratio must not be negative, got %v", s.Policy.MaxForeignRatio)
	}

	if s.Policy.MinLength < 0 {
		return s, fmt.Errorf("min-length must not be negative, got %d", s.Policy.MinLength)
	}

	return s, nil
}

// newPipeline builds the pipeline for lang with the given settings.
func newPipeline(lang string, s Settings) (*pipeline.Pipeline, error) {
	p, err := profile.Get(lang)
	if err != nil {
		return nil, err
	}

	rules, err := normalize.RuleSet(s.Rules)
	if err != nil {
		return nil, err
	}

	return pipeline.New(p,
		pipeline.WithNormalize(s.Normalize),
		pipeline.WithFilter(s.Filter),
		pipeline.WithPolicy(s.Policy),
		pipeline.WithRules(rules),
		pipeline.WithLogger(log),
	), nil
}

func registerProfiles(path string) error {
	profiles, err := profile.RegisterFile(path)
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}

	log.WithField("file", path).Debugf("Registered %d language profile(s)", len(profiles))
	return nil
}

// languageFromPath derives a language code from an input file name:
// "data/olo.jsonl" and "olo.json" both yield "olo".
func languageFromPath(path string) string {
	base := filepath.Base(path)
	for {
		ext := filepath.Ext(base)
		if ext == "" || ext == base {
			return strings.ToLower(base)
		}
		base = strings.TrimSuffix(base, ext)
	}
}

// plainTextExtensions are read as is; any other file goes through docconv.
var plainTextExtensions = map[string]bool{
	"":      true,
	".txt":  true,
	".text": true,
	".md":   true,
}

// readText returns the text of path, reading stdin for "" or "-".
func readText(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", path)
	}

	if plainTextExtensions[strings.ToLower(filepath.Ext(path))] {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		return string(data), nil
	}

	response, err := docconv.ConvertPath(path)
	if err != nil {
		return "", fmt.Errorf("failed to convert '%s': %w", path, err)
	}

	if strings.TrimSpace(response.Body) == "" {
		return "", fmt.Errorf("no readable text found in %s", path)
	}

	return response.Body, nil
}
