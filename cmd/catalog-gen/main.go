package main

import (
	"compress/gzip"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

type entry struct {
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	IsInStock *bool   `json:"is_in_stock,omitempty"`
}

// sampleCatalog lists the sample plants. The last two entries are skipped by
// the importer: one repeats a name, one lacks a price.
func sampleCatalog() []any {
	outOfStock := false
	return []any{
		entry{Name: "Boston Fern", Image: "https://images.example.com/plants/boston-fern.jpg", Price: 24.99},
		entry{Name: "Snake Plant", Image: "https://images.example.com/plants/snake-plant.jpg", Price: 19.5},
		entry{Name: "Fiddle Leaf Fig", Image: "https://images.example.com/plants/fiddle-leaf-fig.jpg", Price: 64},
		entry{Name: "Peace Lily", Image: "https://images.example.com/plants/peace-lily.jpg", Price: 29.99, IsInStock: &outOfStock},
		entry{Name: "Aloe Vera", Image: "https://images.example.com/plants/aloe-vera.jpg", Price: 12.75},
		entry{Name: "Monstera Deliciosa", Image: "https://images.example.com/plants/monstera.jpg", Price: 54.25},
		entry{Name: "Pothos", Image: "https://images.example.com/plants/pothos.jpg", Price: 15},
		entry{Name: "Boston Fern", Image: "https://images.example.com/plants/boston-fern-2.jpg", Price: 22},
		map[string]any{"name": "Rubber Plant", "image": "https://images.example.com/plants/rubber-plant.jpg"},
	}
}

func main() {
	out := flag.String("out", "data/catalog/plants.jsonl.gz", "path of the catalogue file to write")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	entries := sampleCatalog()
	if err := writeCatalog(*out, entries); err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}

	fmt.Printf("Created %s with %d entries\n", *out, len(entries))
	fmt.Println("\nImport it with:")
	fmt.Printf("  CATALOG_FILES=%s go run ./cmd/api\n", *out)
}

func writeCatalog(filePath string, entries []any) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	encoder := json.NewEncoder(gzipWriter)

	for _, e := range entries {
		if err := encoder.Encode(e); err != nil {
			return fmt.Errorf("failed to write entry: %w", err)
		}
	}

	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to close gzip writer: %w", err)
	}

	return nil
}
