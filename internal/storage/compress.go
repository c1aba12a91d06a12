package storage

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

type zstdCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

var loadCodec = sync.OnceValues(func() (*zstdCodec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &zstdCodec{enc: enc, dec: dec}, nil
})

func compress(raw []byte) ([]byte, error) {
	c, err := loadCodec()
	if err != nil {
		return nil, err
	}
	return c.enc.EncodeAll(raw, make([]byte, 0, len(raw)/4)), nil
}

func decompress(blob []byte) ([]byte, error) {
	c, err := loadCodec()
	if err != nil {
		return nil, err
	}
	out, err := c.dec.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	return out, nil
}
