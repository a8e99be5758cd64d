// Package zstd implements the optional ZSTD parquet compression codec.
package zstd

import (
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/cobaltwing/parquet/compress"
	"github.com/cobaltwing/parquet/format"
)

const DefaultLevel = int(zstd.SpeedFastest)

// Codec implements the optional ZSTD compression codec.
type Codec struct {
	Level int

	compress.Compressor
	compress.Decompressor
}

func (c *Codec) String() string { return "ZSTD" }

func (c *Codec) CompressionCodec() format.CompressionCodec { return format.Zstd }

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	return c.Compressor.Encode(dst, src, c.NewWriter)
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	return c.Decompressor.Decode(dst, src, c.NewReader)
}

func (c *Codec) NewReader(r io.Reader) (compress.Reader, error) {
	z, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return reader{z}, nil
}

func (c *Codec) NewWriter(w io.Writer) (compress.Writer, error) {
	level := zstd.EncoderLevel(c.Level)
	if level == 0 {
		level = zstd.SpeedFastest
	}
	z, err := zstd.NewWriter(nonNilWriter(w),
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(level),
		zstd.WithZeroFrames(true),
		zstd.WithEncoderCRC(false),
	)
	if err != nil {
		return nil, err
	}
	return writer{z}, nil
}

type reader struct{ *zstd.Decoder }

func (r reader) Close() error { r.Decoder.Close(); return nil }

type writer struct{ *zstd.Encoder }

func (w writer) Close() error { return w.Encoder.Close() }
func (w writer) Reset(ww io.Writer) { w.Encoder.Reset(nonNilWriter(ww)) }

func nonNilWriter(w io.Writer) io.Writer {
	if w == nil {
		w = io.Discard
	}
	return w
}
