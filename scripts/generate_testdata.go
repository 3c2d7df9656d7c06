//go:build ignore

// generate_testdata.go writes sample catalogs for trying --catalog and for
// exercising long Build lists.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//   testdata/catalogs/small.yaml   (4 categories)
//   testdata/catalogs/medium.yaml  (12 categories)
//   testdata/catalogs/large.yaml   (40 categories, needs scrolling)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/manyways/pkg/catalog"
	"github.com/vanderheijden86/manyways/pkg/testutil"
)

type datasetSpec struct {
	name string
	size int
}

var datasets = []datasetSpec{
	{"small", 4},
	{"medium", 12},
	{"large", 40},
}

type catalogFile struct {
	Categories []catalog.Category `yaml:"categories"`
	Voices     []string           `yaml:"voices"`
}

func main() {
	outputDir := "testdata/catalogs"
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		fmt.Printf("Generating %s catalog (%d categories)...\n", ds.name, ds.size)

		cfg := testutil.DefaultConfig()
		cfg.Seed = int64(ds.size) // Reproducible per-size
		cfg.KeyPrefix = ds.name
		gen := testutil.New(cfg)

		// Round-trip through catalog.New so the file is known to load
		cat, err := catalog.New(gen.Categories(ds.size), gen.VoiceQuotes())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Generated catalog is invalid: %v\n", err)
			os.Exit(1)
		}

		data, err := yaml.Marshal(catalogFile{
			Categories: cat.Categories(),
			Voices:     cat.VoiceQuotes(),
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode %s: %v\n", ds.name, err)
			os.Exit(1)
		}

		outputPath := filepath.Join(outputDir, ds.name+".yaml")
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", outputPath, err)
			os.Exit(1)
		}

		fmt.Printf("  Written %s (%d bytes)\n", outputPath, len(data))
	}

	fmt.Println("\nDone! Sample catalogs created in", outputDir)
}
