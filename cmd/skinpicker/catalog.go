package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroblast-engine/skintile"
)

// Catalog is the list of skins shown by the picker.
type Catalog struct {
	Skins []CatalogSkin `json:"skins"`
}

// CatalogSkin is one skin record.
type CatalogSkin struct {
	ID      skintile.SkinID `json:"id"`
	Name    string          `json:"name"`
	Image   string          `json:"image"`
	Chromas []CatalogChroma `json:"chromas"`
}

// CatalogChroma is one chroma record.
type CatalogChroma struct {
	ID          skintile.ChromaID `json:"id"`
	Colors      []string          `json:"colors"`
	DownloadURL string            `json:"downloadUrl"`
}

// LoadCatalog reads a catalog file. Relative image paths are resolved
// against the catalog's directory.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) // #nosec G304 - user-specified catalog path
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	cat, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cat.resolve(filepath.Dir(path))
	return cat, nil
}

// ParseCatalog decodes and validates catalog JSON.
func ParseCatalog(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	seen := make(map[skintile.SkinID]bool, len(cat.Skins))
	for i, s := range cat.Skins {
		if seen[s.ID] {
			return nil, fmt.Errorf("skin %d: duplicate id %d", i, s.ID)
		}
		seen[s.ID] = true
		if s.Image == "" {
			return nil, fmt.Errorf("skin %d: image is required", s.ID)
		}
	}
	return &cat, nil
}

func (c *Catalog) resolve(dir string) {
	for i, s := range c.Skins {
		if isRemote(s.Image) || filepath.IsAbs(s.Image) {
			continue
		}
		c.Skins[i].Image = filepath.Join(dir, s.Image)
	}
}

func isRemote(ref string) bool {
	for _, prefix := range []string{"http://", "https://", "file://"} {
		if strings.HasPrefix(ref, prefix) {
			return true
		}
	}
	return false
}

// chromaOptions converts the catalog records to tile options.
func (s CatalogSkin) chromaOptions() []skintile.ChromaOption {
	opts := make([]skintile.ChromaOption, len(s.Chromas))
	for i, c := range s.Chromas {
		opts[i] = skintile.ChromaOption{
			ID:          c.ID,
			Colors:      c.Colors,
			DownloadURL: c.DownloadURL,
		}
	}
	return opts
}

// downloadURL looks up a chroma's download URL.
func (s CatalogSkin) downloadURL(id skintile.ChromaID) (string, bool) {
	for _, c := range s.Chromas {
		if c.ID == id {
			return c.DownloadURL, true
		}
	}
	return "", false
}
