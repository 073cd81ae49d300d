package prompt

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// Catalog lists the values a scenario is drawn from.
type Catalog struct {
	Emotions   []string `yaml:"emotions"`
	Setups     []string `yaml:"setups"`
	Causes     []string `yaml:"causes"`
	Relations  []string `yaml:"relations"`
	Conditions []string `yaml:"conditions"`
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(embeddedCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// LoadCatalog reads a YAML catalog from path. An empty path yields the
// embedded catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(b)
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("catalog decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that every list a prompt needs is present.
func (c *Catalog) Validate() error {
	var errs []error
	if len(c.Emotions) == 0 {
		errs = append(errs, errors.New("catalog: emotions are required"))
	}
	if len(c.Setups) == 0 {
		errs = append(errs, errors.New("catalog: setups are required"))
	}
	return errors.Join(errs...)
}

// HasEmotion reports whether emotion is listed.
func (c *Catalog) HasEmotion(emotion string) bool {
	return slices.Contains(c.Emotions, emotion)
}

// Pick draws a scenario using r. Optional lists that are empty leave the
// matching field blank.
func (c *Catalog) Pick(r *rand.Rand) Scenario {
	return Scenario{
		Emotion:   pick(r, c.Emotions),
		Setup:     pick(r, c.Setups),
		Cause:     pick(r, c.Causes),
		Relation:  pick(r, c.Relations),
		Condition: pick(r, c.Conditions),
	}
}

func pick(r *rand.Rand, values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[r.IntN(len(values))]
}
