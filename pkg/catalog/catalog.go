// Package catalog holds the read-only reflection content: the lived
// experience categories a user can select and the closing voice quotes.
//
// A Catalog is immutable once built. Accessors hand out copies so callers
// can never mutate the shared content. The built-in catalog is embedded
// YAML; a user catalog with the same shape may be loaded from disk.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

var (
	// ErrNotFound is returned when a lookup references a key that is not
	// part of the catalog.
	ErrNotFound = errors.New("category not found")

	// ErrInvalidCatalog is returned when catalog content fails validation.
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// Category is one selectable lived experience topic.
type Category struct {
	Key      string   `yaml:"key" json:"key"`
	Label    string   `yaml:"label,omitempty" json:"label"`
	Insights []string `yaml:"insights" json:"insights"`
	Quote    string   `yaml:"quote" json:"quote"`
}

func (c Category) clone() Category {
	c.Insights = append([]string(nil), c.Insights...)
	return c
}

// Catalog is an ordered, immutable set of categories plus voice quotes.
type Catalog struct {
	categories []Category
	index      map[string]int
	voices     []string
}

type catalogFile struct {
	Categories []Category `yaml:"categories"`
	Voices     []string   `yaml:"voices"`
}

// New validates the given content and builds a Catalog. Declaration order
// is preserved. A category without a label uses its key as the label.
func New(categories []Category, voices []string) (*Catalog, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("%w: no categories", ErrInvalidCatalog)
	}

	c := &Catalog{
		categories: make([]Category, 0, len(categories)),
		index:      make(map[string]int, len(categories)),
		voices:     make([]string, 0, len(voices)),
	}

	for i, cat := range categories {
		cat = cat.clone()
		cat.Key = strings.TrimSpace(cat.Key)
		if cat.Key == "" {
			return nil, fmt.Errorf("%w: category %d has an empty key", ErrInvalidCatalog, i+1)
		}
		if _, dup := c.index[cat.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrInvalidCatalog, cat.Key)
		}
		if strings.TrimSpace(cat.Label) == "" {
			cat.Label = cat.Key
		}
		if strings.TrimSpace(cat.Quote) == "" {
			return nil, fmt.Errorf("%w: category %q has no quote", ErrInvalidCatalog, cat.Key)
		}
		for j, insight := range cat.Insights {
			if strings.TrimSpace(insight) == "" {
				return nil, fmt.Errorf("%w: category %q insight %d is empty", ErrInvalidCatalog, cat.Key, j+1)
			}
		}
		c.index[cat.Key] = len(c.categories)
		c.categories = append(c.categories, cat)
	}

	for i, v := range voices {
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("%w: voice quote %d is empty", ErrInvalidCatalog, i+1)
		}
		c.voices = append(c.voices, v)
	}

	return c, nil
}

// Parse builds a Catalog from YAML content.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return New(f.Categories, f.Voices)
}

// LoadFrom reads and validates a catalog file.
func LoadFrom(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Default returns the built-in catalog: six categories and eight voices.
func Default() *Catalog {
	c, err := Parse(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Categories returns every category in declaration order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = cat.clone()
	}
	return out
}

// Get returns the category for key, or ErrNotFound.
func (c *Catalog) Get(key string) (Category, error) {
	i, ok := c.index[key]
	if !ok {
		return Category{}, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return c.categories[i].clone(), nil
}

// At returns the category at position i (0-based) in declaration order.
func (c *Catalog) At(i int) (Category, bool) {
	if i < 0 || i >= len(c.categories) {
		return Category{}, false
	}
	return c.categories[i].clone(), true
}

// Has reports whether key names a category.
func (c *Catalog) Has(key string) bool {
	_, ok := c.index[key]
	return ok
}

// Keys returns the category keys in declaration order.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.categories))
	for i, cat := range c.categories {
		keys[i] = cat.Key
	}
	return keys
}

// Len is the number of categories.
func (c *Catalog) Len() int {
	return len(c.categories)
}

// VoiceQuotes returns the closing quotes in declaration order.
func (c *Catalog) VoiceQuotes() []string {
	return append([]string(nil), c.voices...)
}
