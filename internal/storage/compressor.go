package storage

import (
	"fmt"
	"guessd/internal/storage/interfaces"
	"guessd/internal/structures"

	"github.com/klauspost/compress/zstd"
)

type ZstdCompression struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func (z *ZstdCompression) Compress(val []byte) ([]byte, error) {
	return z.encoder.EncodeAll(val, make([]byte, 0, len(val)/2)), nil
}

func (z *ZstdCompression) Decompress(val []byte) ([]byte, error) {
	return z.decoder.DecodeAll(val, nil)
}

func (z *ZstdCompression) Close() {
	z.encoder.Close()
	z.decoder.Close()
}

func NewZstdCompressor() (interfaces.CompressorInterface, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &ZstdCompression{encoder: encoder, decoder: decoder}, nil
}

// PlainCompression keeps the score file as readable JSON.
type PlainCompression struct{}

func (PlainCompression) Compress(val []byte) ([]byte, error)   { return val, nil }
func (PlainCompression) Decompress(val []byte) ([]byte, error) { return val, nil }
func (PlainCompression) Close()                                {}

func NewCompressorProvider(conf *structures.Config) (interfaces.CompressorInterface, error) {
	if conf.Persistence.Compress {
		return NewZstdCompressor()
	}
	return PlainCompression{}, nil
}
