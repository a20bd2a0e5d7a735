package version

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/fabricedesre/taxonomy/pkg/model"
	"github.com/fabricedesre/taxonomy/pkg/value"
)

//go:embed specs/*.yaml
var specFS embed.FS

// Manifest describes the standardized service kinds of one protocol
// version. Vendor extensions live outside the manifest.
type Manifest struct {
	Version     string              `yaml:"version"`
	Description string              `yaml:"description"`
	Kinds       map[string]KindSpec `yaml:"kinds"`
}

// KindSpec describes a single standardized kind.
type KindSpec struct {
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

// ---------------------------------------------------------------------------
// Cache
// ---------------------------------------------------------------------------

var (
	cacheMu sync.RWMutex
	cache   = make(map[string]*Manifest)
)

// LoadSpec loads a kind manifest by version string (e.g. "1.0").
func LoadSpec(ver string) (*Manifest, error) {
	if _, err := Parse(ver); err != nil {
		return nil, err
	}

	cacheMu.RLock()
	if m, ok := cache[ver]; ok {
		cacheMu.RUnlock()
		return m, nil
	}
	cacheMu.RUnlock()

	data, err := specFS.ReadFile("specs/" + ver + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("spec version %q not found: %w", ver, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing spec %q: %w", ver, err)
	}

	cacheMu.Lock()
	cache[ver] = &m
	cacheMu.Unlock()

	return &m, nil
}

// LoadCurrentSpec loads the manifest for the current protocol version.
func LoadCurrentSpec() (*Manifest, error) {
	return LoadSpec(Current)
}

// AvailableSpecs returns the version strings of all embedded manifests.
func AvailableSpecs() ([]string, error) {
	entries, err := specFS.ReadDir("specs")
	if err != nil {
		return nil, fmt.Errorf("reading specs directory: %w", err)
	}

	var versions []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") {
			versions = append(versions, strings.TrimSuffix(name, ".yaml"))
		}
	}
	sort.Strings(versions)
	return versions, nil
}

// KindNames returns the manifest's kind names, sorted.
func (m *Manifest) KindNames() []string {
	out := make([]string, 0, len(m.Kinds))
	for name := range m.Kinds {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// TypeOf returns the value type the manifest declares for a kind name.
func (m *Manifest) TypeOf(name string) (value.Type, bool) {
	spec, ok := m.Kinds[name]
	if !ok {
		return 0, false
	}
	t, err := value.ParseType(spec.Type)
	if err != nil {
		return 0, false
	}
	return t, true
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

// ValidationResult holds the outcome of checking kinds against a
// manifest.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// ValidateKinds checks that every standardized kind in use is declared
// by the manifest with the same value type. Extension kinds are outside
// the manifest and produce a warning only when their vendor is empty.
func ValidateKinds(m *Manifest, kinds []model.ServiceKind) ValidationResult {
	var result ValidationResult

	for _, k := range kinds {
		if k.IsExtension() {
			if k.Vendor() == "" {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("extension kind %s has no vendor", k))
			}
			continue
		}

		name := k.String()
		spec, declared := m.Kinds[name]
		if !declared {
			result.Errors = append(result.Errors,
				fmt.Sprintf("kind %s not declared in manifest %s", name, m.Version))
			continue
		}

		want, err := value.ParseType(spec.Type)
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("manifest %s declares unknown type %q for kind %s", m.Version, spec.Type, name))
			continue
		}
		if got := k.Type(); got != want {
			result.Errors = append(result.Errors,
				fmt.Sprintf("kind %s carries %s, manifest %s declares %s", name, got, m.Version, want))
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}
