package seed

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// DefaultProfile is seeded when no profile is named
const DefaultProfile = "demo"

//go:embed profiles/*.yaml
var builtinProfiles embed.FS

// Registry holds all available seed profiles
type Registry struct {
	profiles map[string]*Profile
}

// NewRegistry creates a registry with the built-in profiles
func NewRegistry() (*Registry, error) {
	r := &Registry{profiles: make(map[string]*Profile)}

	entries, err := fs.Glob(builtinProfiles, "profiles/*.yaml")
	if err != nil {
		return nil, err
	}
	for _, name := range entries {
		data, err := builtinProfiles.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		p, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path.Base(name), err)
		}
		r.Register(p)
	}
	return r, nil
}

// Get returns a profile by name
func (r *Registry) Get(name string) (*Profile, bool) {
	p, ok := r.profiles[strings.ToLower(name)]
	return p, ok
}

// All returns all registered profiles sorted by name
func (r *Registry) All() []*Profile {
	result := make([]*Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Names returns all profile names
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds or replaces a profile
func (r *Registry) Register(p *Profile) {
	r.profiles[strings.ToLower(p.Name)] = p
}
