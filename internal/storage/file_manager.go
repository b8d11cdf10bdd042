package storage

import (
	"bytes"
	"fmt"
	"guessd/internal/models"
	"guessd/internal/providers"
	"guessd/internal/storage/interfaces"
	"guessd/internal/structures"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
)

// FileManager keeps the whole score store in one file: a JSON object keyed
// by participant id, optionally zstd-compressed. Writes replace the file
// atomically.
type FileManager struct {
	path       string
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	mu         sync.Mutex
}

func NewFileManager(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		path:       conf.Persistence.FilePath,
		compressor: compressor,
		logger:     logger,
	}
}

func (f *FileManager) Save(scores models.Scores) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if scores == nil {
		scores = models.Scores{}
	}
	jsonData, err := json.Marshal(scores)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmpFile := f.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, f.path)
}

// Load returns an empty store when the file does not exist yet.
func (f *FileManager) Load() (models.Scores, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			f.logger.Infof(providers.TypeScore, "No score file at %s, starting empty", f.path)
			return models.Scores{}, nil
		}
		return nil, err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", f.path, err)
	}
	if len(bytes.TrimSpace(decompressed)) == 0 {
		return models.Scores{}, nil
	}

	var scores models.Scores
	if err := json.Unmarshal(decompressed, &scores); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	if scores == nil {
		scores = models.Scores{}
	}
	return scores, nil
}

func (f *FileManager) Close() {
	f.compressor.Close()
}
