package catalog

import (
	"errors"
	"fmt"
	"guessd/internal/models"
	"io/fs"
	"path/filepath"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/spf13/afero"
)

// Catalog is the read-only list of puzzles, built once at startup.
type Catalog struct {
	puzzles []models.Puzzle
}

type catalogEntry struct {
	Name   string `json:"name"`
	Author string `json:"author"`
	Rank   uint32 `json:"rank"`
	Asset  string `json:"asset"`
}

func NewCatalog(puzzles []models.Puzzle) *Catalog {
	return &Catalog{puzzles: append([]models.Puzzle(nil), puzzles...)}
}

// Load reads a levels file. A missing file yields an empty catalog; the
// failure then surfaces as ErrCatalogEmpty when a round is started.
func Load(fsys afero.Fs, path, assetDir string) (*Catalog, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewCatalog(nil), nil
		}
		return nil, err
	}

	var entries []catalogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	puzzles := make([]models.Puzzle, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		asset := e.Asset
		if asset == "" {
			asset = filepath.Join(assetDir, strconv.FormatUint(uint64(e.Rank), 10)+".png")
		}
		puzzles = append(puzzles, models.Puzzle{
			Rank:       e.Rank,
			SecretName: e.Name,
			Author:     e.Author,
			AssetRef:   asset,
		})
	}
	return &Catalog{puzzles: puzzles}, nil
}

func (c *Catalog) Len() int {
	return len(c.puzzles)
}

// At returns a copy of the i-th puzzle.
func (c *Catalog) At(i int) models.Puzzle {
	return c.puzzles[i]
}
