// Package lz4 implements the optional LZ4_RAW parquet compression codec.
package lz4

import (
	"bytes"
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/cobaltwing/parquet/compress"
	"github.com/cobaltwing/parquet/format"
)

type Level = lz4.CompressionLevel

const (
	Fast   = lz4.Fast
	Level1 = lz4.Level1
	Level2 = lz4.Level2
	Level3 = lz4.Level3
	Level4 = lz4.Level4
	Level5 = lz4.Level5
	Level6 = lz4.Level6
	Level7 = lz4.Level7
	Level8 = lz4.Level8
	Level9 = lz4.Level9
)

const DefaultLevel = Fast

// Codec implements the optional LZ4_RAW compression codec, operating on
// raw LZ4 blocks (no frame header) the way Parquet requires.
type Codec struct {
	Level Level
}

func (c *Codec) String() string { return "LZ4_RAW" }

func (c *Codec) CompressionCodec() format.CompressionCodec { return format.Lz4Raw }

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst[:0], nil
	}
	limit := lz4.CompressBlockBound(len(src))
	if cap(dst) < limit {
		dst = make([]byte, limit)
	} else {
		dst = dst[:limit]
	}
	var compressor lz4.CompressorHC
	compressor.Level = c.Level
	n, err := compressor.CompressBlock(src, dst)
	if err != nil {
		return dst, err
	}
	if n == 0 {
		// incompressible input: CompressBlock returns 0 without an error.
		return append(dst[:0], src...), nil
	}
	return dst[:n], nil
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	if cap(dst) < 3*len(src) {
		dst = make([]byte, 3*len(src))
	} else {
		dst = dst[:cap(dst)]
	}
	for {
		n, err := lz4.UncompressBlock(src, dst)
		if err != nil {
			dst = make([]byte, 2*len(dst)+1)
			continue
		}
		return dst[:n], nil
	}
}

func (c *Codec) NewReader(r io.Reader) (compress.Reader, error) {
	return &reader{reader: r}, nil
}

func (c *Codec) NewWriter(w io.Writer) (compress.Writer, error) {
	return &writer{writer: w, compressor: lz4.CompressorHC{Level: c.Level}}, nil
}

type reader struct {
	buffer bytes.Buffer
	data   []byte
	offset int
	reader io.Reader
}

func (r *reader) Close() error {
	r.offset = len(r.data)
	r.reader = nil
	return nil
}

func (r *reader) Reset(rr io.Reader) error {
	r.buffer.Reset()
	r.data = r.data[:0]
	r.offset = 0
	r.reader = rr
	return nil
}

func (r *reader) Read(b []byte) (int, error) {
	if r.offset == 0 && len(r.data) == 0 {
		if err := r.decompress(); err != nil {
			return 0, err
		}
	}
	n := copy(b, r.data[r.offset:])
	r.offset += n
	if r.offset == len(r.data) {
		return n, io.EOF
	}
	return n, nil
}

func (r *reader) decompress() error {
	if r.reader == nil {
		return io.EOF
	}
	if _, err := r.buffer.ReadFrom(r.reader); err != nil {
		return err
	}
	if size := 3 * r.buffer.Len(); cap(r.data) < size {
		r.data = make([]byte, size)
	} else {
		r.data = r.data[:cap(r.data)]
	}
	for {
		n, err := lz4.UncompressBlock(r.buffer.Bytes(), r.data)
		if err != nil {
			r.data = make([]byte, 2*len(r.data)+1)
		} else {
			r.data = r.data[:n]
			return nil
		}
	}
}

type writer struct {
	wbuf       []byte
	zbuf       []byte
	writer     io.Writer
	compressor lz4.CompressorHC
}

func (w *writer) Reset(ww io.Writer) {
	w.wbuf = w.wbuf[:0]
	w.zbuf = w.zbuf[:0]
	w.writer = ww
}

func (w *writer) Write(b []byte) (int, error) {
	w.wbuf = append(w.wbuf, b...)
	return len(b), nil
}

func (w *writer) Close() (err error) {
	if len(w.wbuf) > 0 {
		limit := lz4.CompressBlockBound(len(w.wbuf))
		if limit > cap(w.zbuf) {
			w.zbuf = make([]byte, limit)
		} else {
			w.zbuf = w.zbuf[:limit]
		}
		size, cerr := w.compressor.CompressBlock(w.wbuf, w.zbuf)
		if cerr != nil {
			return cerr
		}
		_, err = w.writer.Write(w.zbuf[:size])
	}
	return err
}
