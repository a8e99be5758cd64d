package parquet

import (
	"github.com/cobaltwing/parquet/compress"
	"github.com/cobaltwing/parquet/compress/brotli"
	"github.com/cobaltwing/parquet/compress/gzip"
	"github.com/cobaltwing/parquet/compress/lz4"
	"github.com/cobaltwing/parquet/compress/snappy"
	"github.com/cobaltwing/parquet/compress/uncompressed"
	"github.com/cobaltwing/parquet/compress/zstd"
	"github.com/cobaltwing/parquet/format"
)

var (
	Uncompressed uncompressed.Codec
	Snappy       snappy.Codec
	Gzip         = gzip.Codec{Level: gzip.DefaultCompression}
	Brotli       = brotli.Codec{Quality: brotli.DefaultQuality, LGWin: brotli.DefaultLGWin}
	Zstd         = zstd.Codec{Level: zstd.DefaultLevel}
	Lz4Raw       = lz4.Codec{Level: lz4.DefaultLevel}

	compressionCodecs = [...]compress.Codec{
		format.Uncompressed: &Uncompressed,
		format.Snappy:       &Snappy,
		format.Gzip:         &Gzip,
		format.Brotli:       &Brotli,
		format.Zstd:         &Zstd,
		format.Lz4Raw:       &Lz4Raw,
	}
)

// LookupCodec returns the compress.Codec implementing codec, or an
// *Error of kind Unsupported if the implementation carries no binding for
// it. LZO is named by the format but no library in this module's
// dependency tree implements it (see DESIGN.md); it always resolves to
// Unsupported.
func LookupCodec(codec format.CompressionCodec) (compress.Codec, error) {
	if codec >= 0 && int(codec) < len(compressionCodecs) {
		if c := compressionCodecs[codec]; c != nil {
			return c, nil
		}
	}
	return nil, errKind(Unsupported, "compression codec %s", codec)
}
