package profile

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/profiles.yaml
var builtinProfiles []byte

type document struct {
	Languages []Spec `yaml:"languages"`
}

func init() {
	profiles, err := Load(bytes.NewReader(builtinProfiles))
	if err != nil {
		panic(fmt.Sprintf("profile: embedded profiles.yaml is invalid: %v", err))
	}

	for _, p := range profiles {
		if err := DefaultRegistry.Register(p); err != nil {
			panic(fmt.Sprintf("profile: %v", err))
		}
	}
}

// Load parses a YAML profile document.
func Load(r io.Reader) ([]*Profile, error) {
	var doc document

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse profiles: %w", err)
	}

	profiles := make([]*Profile, 0, len(doc.Languages))
	for _, spec := range doc.Languages {
		p, err := New(spec)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	return profiles, nil
}

// LoadFile parses the YAML profile document at path.
func LoadFile(path string) ([]*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open profiles file: %w", err)
	}
	defer f.Close()

	profiles, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return profiles, nil
}

// RegisterFile loads extra profiles from path into the default registry.
func RegisterFile(path string) ([]*Profile, error) {
	profiles, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	for _, p := range profiles {
		if err := DefaultRegistry.Register(p); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	return profiles, nil
}
