// Package testutil provides deterministic fixtures and assertions shared by
// package tests: generated catalogs, random action scripts and helpers for
// checking sessions and views.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/vanderheijden86/manyways/pkg/catalog"
	"github.com/vanderheijden86/manyways/pkg/flow"
)

// GeneratorConfig controls fixture generation.
type GeneratorConfig struct {
	Seed      int64  // Random seed for determinism (0 = 42)
	KeyPrefix string // Prefix for category keys (default: "cat")
	Insights  int    // Insights per category (default: 2)
	Voices    int    // Voice quotes per catalog (default: 3)
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:      42,
		KeyPrefix: "cat",
		Insights:  2,
		Voices:    3,
	}
}

// Generator creates catalogs and action scripts.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "cat"
	}
	if cfg.Insights <= 0 {
		cfg.Insights = 2
	}
	if cfg.Voices < 0 {
		cfg.Voices = 0
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Key returns the key of the i-th generated category.
func (g *Generator) Key(i int) string {
	return fmt.Sprintf("%s-%02d", g.cfg.KeyPrefix, i)
}

// Categories returns n categories with keys Key(0)..Key(n-1).
func (g *Generator) Categories(n int) []catalog.Category {
	out := make([]catalog.Category, n)
	for i := range out {
		insights := make([]string, g.cfg.Insights)
		for j := range insights {
			insights[j] = fmt.Sprintf("Insight %d about %s", j+1, g.Key(i))
		}
		out[i] = catalog.Category{
			Key:      g.Key(i),
			Label:    fmt.Sprintf("Experience %d", i+1),
			Insights: insights,
			Quote:    fmt.Sprintf("Quote for %s", g.Key(i)),
		}
	}
	return out
}

// VoiceQuotes returns the configured number of voice quotes.
func (g *Generator) VoiceQuotes() []string {
	out := make([]string, g.cfg.Voices)
	for i := range out {
		out[i] = fmt.Sprintf("Voice %d", i+1)
	}
	return out
}

// Catalog builds a valid catalog of n categories. It panics on n < 1.
func (g *Generator) Catalog(n int) *catalog.Catalog {
	c, err := catalog.New(g.Categories(n), g.VoiceQuotes())
	if err != nil {
		panic(err)
	}
	return c
}

// Script returns a random sequence of length commands over a catalog of
// n categories, as accepted by flow.ParseScript. Commands that the router
// would reject are included on purpose.
func (g *Generator) Script(length, n int) string {
	verbs := []string{"begin", "back", "finish", "next", "restart"}
	tokens := make([]string, length)
	for i := range tokens {
		switch g.rng.Intn(3) {
		case 0:
			tokens[i] = "toggle:" + g.Key(g.rng.Intn(n))
		case 1:
			tokens[i] = fmt.Sprintf("toggle#%d", g.rng.Intn(n)+1)
		default:
			tokens[i] = verbs[g.rng.Intn(len(verbs))]
		}
	}
	return strings.Join(tokens, ",")
}

// Commands parses Script output. It panics if the generator produced an
// unparseable script.
func (g *Generator) Commands(length, n int) []flow.Command {
	cmds, err := flow.ParseScript(g.Script(length, n))
	if err != nil {
		panic(err)
	}
	return cmds
}
