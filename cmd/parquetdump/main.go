// Command parquetdump prints a parquet file's footer, schema tree, and
// row-group statistics to stdout. It is not a re-implementation of any
// particular parquet-tools command; it exists to make the library's footer
// decoding observable from the command line.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/cobaltwing/parquet"
	"github.com/cobaltwing/parquet/internal/xlog"
)

func main() {
	debug := flag.Bool("debug", false, "print debug output to stderr")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [--debug] file.parquet\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	xlog.Enable(*debug)

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := dump(flag.Arg(0), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "parquetdump: %s\n", err)
		os.Exit(1)
	}
}

func dump(path string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	xlog.Printf("opening %s (%d bytes)", path, info.Size())
	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return err
	}

	printFooter(w, pf)
	fmt.Fprintln(w)
	printSchema(w, pf.Schema().Root, 0)
	fmt.Fprintln(w)
	printRowGroups(w, pf)
	return nil
}

func printFooter(w io.Writer, f *parquet.File) {
	meta := f.Metadata()
	fmt.Fprintf(w, "version: %d\n", meta.Version)
	fmt.Fprintf(w, "rows: %d\n", meta.NumRows)
	fmt.Fprintf(w, "row groups: %d\n", len(meta.RowGroups))
	if meta.CreatedBy != nil {
		fmt.Fprintf(w, "created by: %s\n", *meta.CreatedBy)
	}
	for _, kv := range meta.KeyValueMetadata {
		if kv.Value != nil {
			fmt.Fprintf(w, "metadata: %s = %s\n", kv.Key, *kv.Value)
		} else {
			fmt.Fprintf(w, "metadata: %s\n", kv.Key)
		}
	}
}

func printSchema(w io.Writer, n *parquet.Node, depth int) {
	for i := 0; i < depth; i++ {
		fmt.Fprint(w, "  ")
	}
	fmt.Fprintln(w, n.String())
	for _, c := range n.Children {
		printSchema(w, c, depth+1)
	}
}

func printRowGroups(w io.Writer, f *parquet.File) {
	for i, rg := range f.RowGroups() {
		fmt.Fprintf(w, "row group %d: %d rows, %d columns\n", i, rg.NumRows(), rg.NumColumns())
		for j := 0; j < rg.NumColumns(); j++ {
			cr, err := rg.Column(j)
			if err != nil {
				fmt.Fprintf(w, "  column %d: %s\n", j, err)
				continue
			}
			printColumnStats(w, j, cr)
		}
	}
}

func printColumnStats(w io.Writer, i int, cr *parquet.ColumnChunkReader) {
	meta := cr.Metadata()
	fmt.Fprintf(w, "  column %d: %s, %d values, codec=%s\n", i, meta.PathInSchema, meta.NumValues, meta.Codec)
	if meta.Statistics != nil && meta.Statistics.NullCount != nil {
		fmt.Fprintf(w, "    nulls: %d\n", *meta.Statistics.NullCount)
	}
}
