// Package compression encodes object files on disk.
package compression

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// frameMagic starts every zstd frame.
var frameMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

type Compressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	enabled bool
}

// NewCompressor builds a compressor for level 1 (fastest) to 3 (best).
// A disabled compressor still decodes zstd frames so repositories written
// with compression remain readable.
func NewCompressor(level int, enabled bool) (*Compressor, error) {
	var encoderLevel zstd.EncoderLevel
	switch level {
	case 1:
		encoderLevel = zstd.SpeedFastest
	case 2:
		encoderLevel = zstd.SpeedDefault
	case 3:
		encoderLevel = zstd.SpeedBetterCompression
	default:
		encoderLevel = zstd.SpeedDefault
	}

	c := &Compressor{enabled: enabled}

	if enabled {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(encoderLevel),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			return nil, err
		}
		c.encoder = encoder
	}

	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	c.decoder = decoder

	return c, nil
}

func (c *Compressor) Compress(data []byte) []byte {
	if !c.enabled {
		return data
	}
	return c.encoder.EncodeAll(data, make([]byte, 0, len(data)/2))
}

// Decompress returns the decoded bytes and whether data was a zstd frame.
// Data without the frame magic is returned unchanged.
func (c *Compressor) Decompress(data []byte) ([]byte, bool, error) {
	if !bytes.HasPrefix(data, frameMagic) {
		return data, false, nil
	}

	decompressed, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, true, fmt.Errorf("zstd decode: %w", err)
	}

	return decompressed, true, nil
}

func (c *Compressor) Close() error {
	if c.encoder != nil {
		c.encoder.Close()
	}
	if c.decoder != nil {
		c.decoder.Close()
	}
	return nil
}
