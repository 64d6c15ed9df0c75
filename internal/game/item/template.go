package item

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Quality is an item quality tier.
type Quality int

const (
	QualityPoor Quality = iota
	QualityCommon
	QualityUncommon
	QualityRare
	QualityEpic
	QualityLegendary
	QualityArtifact
)

// MaxReforgeableQuality is the highest tier the reforging feature supports.
// Artifact items are never reforgeable.
const MaxReforgeableQuality = QualityLegendary

// qualityNames maps quality tiers to their YAML/display names.
var qualityNames = map[string]Quality{
	"poor":      QualityPoor,
	"common":    QualityCommon,
	"uncommon":  QualityUncommon,
	"rare":      QualityRare,
	"epic":      QualityEpic,
	"legendary": QualityLegendary,
	"artifact":  QualityArtifact,
}

// String returns the lowercase quality name.
func (q Quality) String() string {
	for name, v := range qualityNames {
		if v == q {
			return name
		}
	}
	return "unknown"
}

// ParseQuality resolves a quality name to its tier.
func ParseQuality(name string) (Quality, error) {
	q, ok := qualityNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown quality %q", name)
	}
	return q, nil
}

// MaxTemplateStats is the maximum number of stat entries an item template may
// declare.
const MaxTemplateStats = 10

// StatValue pairs an attribute kind with its magnitude.
type StatValue struct {
	Attribute Attribute `yaml:"attribute"`
	Value     int       `yaml:"value"`
}

// Template defines the static properties of an item loaded from YAML.
type Template struct {
	ID      string      `yaml:"id"`
	Name    string      `yaml:"name"`
	Quality string      `yaml:"quality"`
	Stats   []StatValue `yaml:"stats"`
}

// Validate checks that the Template satisfies its invariants.
//
// Precondition: t is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (t *Template) Validate() error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if t.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if _, err := ParseQuality(t.Quality); err != nil {
		errs = append(errs, err)
	}
	if len(t.Stats) > MaxTemplateStats {
		errs = append(errs, fmt.Errorf("at most %d stats allowed, got %d", MaxTemplateStats, len(t.Stats)))
	}
	seen := make(map[Attribute]bool, len(t.Stats))
	for _, s := range t.Stats {
		if !s.Attribute.Valid() {
			errs = append(errs, fmt.Errorf("unknown attribute %q", s.Attribute))
		}
		if seen[s.Attribute] {
			errs = append(errs, fmt.Errorf("duplicate attribute %q", s.Attribute))
		}
		seen[s.Attribute] = true
	}
	if len(errs) > 0 {
		return fmt.Errorf("template validation failed: %v", errs)
	}
	return nil
}

// QualityTier returns the parsed quality tier.
//
// Precondition: t has passed Validate.
func (t *Template) QualityTier() Quality {
	q, _ := ParseQuality(t.Quality)
	return q
}

// Snapshot returns the template's stat list filtered to positive values,
// capped at MaxTemplateStats entries, in declaration order. The returned
// slice is freshly allocated and safe for the caller to mutate.
func (t *Template) Snapshot() []StatValue {
	out := make([]StatValue, 0, len(t.Stats))
	for _, s := range t.Stats {
		if s.Value <= 0 {
			continue
		}
		out = append(out, s)
		if len(out) == MaxTemplateStats {
			break
		}
	}
	return out
}

// FindStat returns the stat entry for the given attribute, or false.
func FindStat(stats []StatValue, attr Attribute) (StatValue, bool) {
	for _, s := range stats {
		if s.Attribute == attr {
			return s, true
		}
	}
	return StatValue{}, false
}

// LoadTemplates reads all *.yaml and *.yml files from dir, parses each as a
// Template, validates it, and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid Templates or the first encountered error.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadTemplates: cannot read directory %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadTemplates: cannot read file %q: %w", path, err)
		}
		var t Template
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("LoadTemplates: cannot parse file %q: %w", path, err)
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("LoadTemplates: invalid template in %q: %w", path, err)
		}
		templates = append(templates, &t)
	}
	return templates, nil
}
