package catalog

import (
	"guessd/internal/structures"

	"github.com/spf13/afero"
)

func NewOsFs() afero.Fs {
	return afero.NewOsFs()
}

func NewCatalogProvider(conf *structures.Config, fs afero.Fs) (*Catalog, error) {
	return Load(fs, conf.Catalog.FilePath, conf.Catalog.AssetDir)
}

func NewSourceProvider(conf *structures.Config, catalog *Catalog, fs afero.Fs) *Source {
	return NewSource(catalog, NewAferoAssetChecker(fs), conf.Game.PickAttempts)
}
