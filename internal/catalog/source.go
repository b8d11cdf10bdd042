package catalog

import (
	"errors"
	"guessd/internal/models"
	"math/rand/v2"

	"github.com/spf13/afero"
)

const DefaultPickAttempts = 50

var (
	ErrCatalogEmpty = errors.New("catalog is empty")
	ErrNoValidAsset = errors.New("no puzzle with a present asset")
)

type AssetChecker interface {
	Exists(path string) bool
}

type AferoAssetChecker struct {
	fs afero.Fs
}

func NewAferoAssetChecker(fs afero.Fs) *AferoAssetChecker {
	return &AferoAssetChecker{fs: fs}
}

func (a *AferoAssetChecker) Exists(path string) bool {
	ok, err := afero.Exists(a.fs, path)
	return err == nil && ok
}

// Source draws puzzles whose asset is present. Catalog and asset storage
// can drift apart, so every draw is checked.
type Source struct {
	catalog  *Catalog
	assets   AssetChecker
	attempts int
	intn     func(n int) int
}

func NewSource(catalog *Catalog, assets AssetChecker, attempts int) *Source {
	if attempts <= 0 {
		attempts = DefaultPickAttempts
	}
	return &Source{
		catalog:  catalog,
		assets:   assets,
		attempts: attempts,
		intn:     rand.IntN,
	}
}

func (s *Source) PickPuzzle() (models.Puzzle, error) {
	n := s.catalog.Len()
	if n == 0 {
		return models.Puzzle{}, ErrCatalogEmpty
	}
	for i := 0; i < s.attempts; i++ {
		p := s.catalog.At(s.intn(n))
		if s.assets.Exists(p.AssetRef) {
			return p, nil
		}
	}
	return models.Puzzle{}, ErrNoValidAsset
}
