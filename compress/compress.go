// Package compress provides the generic APIs implemented by parquet
// compression codecs.
//
// https://github.com/apache/parquet-format/blob/master/Compression.md
package compress

import (
	"bytes"
	"io"
	"sync"

	"github.com/cobaltwing/parquet/format"
)

// Codec represents a parquet compression codec. Implementations must be
// safe to use concurrently from multiple goroutines.
type Codec interface {
	// String returns a human-readable name for the codec.
	String() string

	// CompressionCodec returns the code of the compression codec in the
	// parquet format.
	CompressionCodec() format.CompressionCodec

	// Encode appends the compressed form of src to dst and returns the
	// extended buffer.
	Encode(dst, src []byte) ([]byte, error)

	// Decode appends the decompressed form of src to dst and returns the
	// extended buffer.
	Decode(dst, src []byte) ([]byte, error)
}

// Reader is the interface implemented by the per-codec streaming readers
// that NewReader constructors return.
type Reader interface {
	io.ReadCloser
	Reset(io.Reader) error
}

// Writer is the interface implemented by the per-codec streaming writers
// that NewWriter constructors return.
type Writer interface {
	io.WriteCloser
	Reset(io.Writer)
}

// Compressor pools streaming writers to amortize their setup cost across
// repeated Encode calls.
type Compressor struct {
	writers sync.Pool
}

func (c *Compressor) Encode(dst, src []byte, newWriter func(io.Writer) (Writer, error)) ([]byte, error) {
	output := bytes.NewBuffer(dst[:0])

	w, _ := c.writers.Get().(Writer)
	if w != nil {
		w.Reset(output)
	} else {
		var err error
		if w, err = newWriter(output); err != nil {
			return dst, err
		}
	}
	defer c.writers.Put(w)
	defer w.Reset(io.Discard)

	if _, err := w.Write(src); err != nil {
		return output.Bytes(), err
	}
	if err := w.Close(); err != nil {
		return output.Bytes(), err
	}
	return output.Bytes(), nil
}

// Decompressor pools streaming readers to amortize their setup cost across
// repeated Decode calls.
type Decompressor struct {
	readers sync.Pool
}

func (d *Decompressor) Decode(dst, src []byte, newReader func(io.Reader) (Reader, error)) ([]byte, error) {
	input := bytes.NewReader(src)

	r, _ := d.readers.Get().(Reader)
	if r != nil {
		if err := r.Reset(input); err != nil {
			return dst, err
		}
	} else {
		var err error
		if r, err = newReader(input); err != nil {
			return dst, err
		}
	}

	defer func() {
		if err := r.Reset(nil); err == nil {
			d.readers.Put(r)
		}
	}()

	output := bytes.NewBuffer(dst[:0])
	_, err := output.ReadFrom(r)
	return output.Bytes(), err
}
