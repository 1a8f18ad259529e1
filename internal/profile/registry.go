package profile

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry manages the collection of available language profiles
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
	aliases  map[string]string // Allow multiple names for same profile
}

// NewRegistry creates a new profile registry
func NewRegistry() *Registry {
	return &Registry{
		profiles: make(map[string]*Profile),
		aliases:  make(map[string]string),
	}
}

// Register adds a profile and its aliases to the registry
func (r *Registry) Register(p *Profile) error {
	if p == nil {
		return fmt.Errorf("profile cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.profiles[p.code]; exists {
		return fmt.Errorf("profile for language '%s' already registered", p.code)
	}

	if _, exists := r.aliases[p.code]; exists {
		return fmt.Errorf("language code '%s' conflicts with an existing alias", p.code)
	}

	r.profiles[p.code] = p

	for _, alias := range p.aliases {
		if err := r.addAliasLocked(alias, p.code); err != nil {
			delete(r.profiles, p.code)
			return err
		}
	}

	return nil
}

func (r *Registry) addAliasLocked(alias, code string) error {
	alias = normalizeKey(alias)
	code = normalizeKey(code)

	if alias == "" || code == "" {
		return fmt.Errorf("alias and language code cannot be empty")
	}

	if _, exists := r.profiles[code]; !exists {
		return fmt.Errorf("language '%s' not found", code)
	}

	if _, exists := r.aliases[alias]; exists {
		return fmt.Errorf("alias '%s' already registered", alias)
	}

	if _, exists := r.profiles[alias]; exists {
		return fmt.Errorf("alias '%s' conflicts with existing language code", alias)
	}

	r.aliases[alias] = code
	return nil
}

// Get retrieves a profile by language code or alias
func (r *Registry) Get(code string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := normalizeKey(code)

	if p, exists := r.profiles[key]; exists {
		return p, nil
	}

	if realCode, exists := r.aliases[key]; exists {
		if p, exists := r.profiles[realCode]; exists {
			return p, nil
		}
	}

	return nil, fmt.Errorf("%w: no profile registered for '%s' (available: %s)",
		ErrUnknownLanguage, code, strings.Join(r.codesLocked(), ", "))
}

// List returns all registered profiles sorted by code
func (r *Registry) List() []*Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profiles := make([]*Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		profiles = append(profiles, p)
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].code < profiles[j].code
	})

	return profiles
}

// codesLocked returns the registered codes, sorted. r.mu must be held.
func (r *Registry) codesLocked() []string {
	codes := make([]string, 0, len(r.profiles))
	for code := range r.profiles {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DefaultRegistry is the global registry instance, populated from the
// embedded profile data at startup.
var DefaultRegistry = NewRegistry()

// Register adds a profile to the default registry
func Register(p *Profile) error {
	return DefaultRegistry.Register(p)
}

// Get retrieves a profile from the default registry
func Get(code string) (*Profile, error) {
	return DefaultRegistry.Get(code)
}

// List returns all profiles from the default registry
func List() []*Profile {
	return DefaultRegistry.List()
}
