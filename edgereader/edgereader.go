// Package edgereader reads wide-row edge files in tab-separated (or other
// single-character-separated) TXV format into individual records, applying
// the column-count shape policy a caller configures.
package edgereader

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/HardiRathod/kgraph"
)

const (
	node1Column = "node1"
	node2Column = "node2"
	labelColumn = "label"

	// defaultGunzipQueueSize bounds the line queue a background gunzip
	// goroutine feeds when Options.GunzipInParallel is set.
	defaultGunzipQueueSize = 1000
)

// Options configures a Reader's column-shape policy and decompression mode.
type Options struct {
	// ColumnSeparator splits each line into fields. Defaults to "\t".
	ColumnSeparator string

	// RequireAllColumns fails a record with fewer fields than the header.
	RequireAllColumns bool

	// ProhibitExtraColumns fails a record with more fields than the header.
	ProhibitExtraColumns bool

	// FillMissingColumns pads a short record with empty trailing fields.
	// Only consulted when RequireAllColumns is false.
	FillMissingColumns bool

	// GunzipInParallel decompresses a .gz source on a background goroutine,
	// handing decompressed lines to the reader over a bounded channel
	// instead of blocking the reader's own goroutine on I/O.
	GunzipInParallel bool

	// GunzipQueueSize bounds the line channel when GunzipInParallel is set.
	// Defaults to 1000.
	GunzipQueueSize int
}

func (o Options) separator() string {
	if o.ColumnSeparator == "" {
		return "\t"
	}

	return o.ColumnSeparator
}

// Reader iterates the records of one edge file. Line numbers reported in
// errors are 1-based, counting from the first line after the header.
type Reader struct {
	closer io.Closer

	sep         string
	columnNames []string
	columnIndex map[string]int

	node1Idx, node2Idx, labelIdx int

	requireAll, prohibitExtra, fillMissing bool

	lines     <-chan string
	gunzipErr *error
	scanner   *bufio.Scanner
	fromChan  bool

	lineNum int
	err     error
}

// Open reads path's header and returns a Reader positioned at the first
// data record. A path ending in ".gz" is transparently decompressed. A path
// of "-" reads from standard input instead of opening a file.
func Open(path string, opts Options) (*Reader, error) {
	if path == "-" {
		return open(io.NopCloser(os.Stdin), opts)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("edgereader: %w", err)
	}

	var body io.ReadCloser = f

	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()

			return nil, fmt.Errorf("edgereader: %w", err)
		}

		body = &gzipBody{gz: gz, underlying: f}
	}

	return open(body, opts)
}

// gzipBody closes both the gzip.Reader and the underlying file.
type gzipBody struct {
	gz         *gzip.Reader
	underlying io.Closer
}

func (b *gzipBody) Read(p []byte) (int, error) { return b.gz.Read(p) }
func (b *gzipBody) Close() error {
	err := b.gz.Close()
	if uerr := b.underlying.Close(); err == nil {
		err = uerr
	}

	return err
}

func open(body io.ReadCloser, opts Options) (*Reader, error) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		body.Close()

		if err := scanner.Err(); err != nil {
			return nil, &kgraph.CompileError{Kind: kgraph.KindHeaderError, Phase: "read edge header", Message: err.Error()}
		}

		return nil, &kgraph.CompileError{Kind: kgraph.KindHeaderError, Phase: "read edge header", Message: "edge file is empty"}
	}

	sep := opts.separator()
	columnNames := strings.Split(scanner.Text(), sep)

	if len(columnNames) < 3 {
		body.Close()

		return nil, &kgraph.CompileError{Kind: kgraph.KindHeaderError, Phase: "read edge header",
			Message: "the edge file header must have at least three columns"}
	}

	columnIndex := make(map[string]int, len(columnNames))

	for i, name := range columnNames {
		if name == "" {
			body.Close()

			return nil, &kgraph.CompileError{Kind: kgraph.KindHeaderError, Phase: "read edge header",
				Message: "invalid empty column name in the edge file header"}
		}

		columnIndex[name] = i
	}

	node1Idx, ok := columnIndex[node1Column]
	if !ok {
		body.Close()

		return nil, &kgraph.CompileError{Kind: kgraph.KindHeaderError, Phase: "read edge header", Message: "missing node1 column in the edge file header"}
	}

	node2Idx, ok := columnIndex[node2Column]
	if !ok {
		body.Close()

		return nil, &kgraph.CompileError{Kind: kgraph.KindHeaderError, Phase: "read edge header", Message: "missing node2 column in the edge file header"}
	}

	labelIdx, ok := columnIndex[labelColumn]
	if !ok {
		body.Close()

		return nil, &kgraph.CompileError{Kind: kgraph.KindHeaderError, Phase: "read edge header", Message: "missing label column in the edge file header"}
	}

	r := &Reader{
		closer:        body,
		sep:           sep,
		columnNames:   columnNames,
		columnIndex:   columnIndex,
		node1Idx:      node1Idx,
		node2Idx:      node2Idx,
		labelIdx:      labelIdx,
		requireAll:    opts.RequireAllColumns,
		prohibitExtra: opts.ProhibitExtraColumns,
		fillMissing:   opts.FillMissingColumns,
		lineNum:       1,
	}

	if opts.GunzipInParallel {
		size := opts.GunzipQueueSize
		if size <= 0 {
			size = defaultGunzipQueueSize
		}

		r.lines, r.gunzipErr = startGunzipProcess(scanner, size)
		r.fromChan = true
	} else {
		r.scanner = scanner
	}

	return r, nil
}

// ColumnNames returns the header's column names, in file order.
func (r *Reader) ColumnNames() []string { return r.columnNames }

// ExtensionColumns returns the header's columns other than node1/node2/label/id.
func (r *Reader) ExtensionColumns() []string {
	out := make([]string, 0, len(r.columnNames))

	for _, name := range r.columnNames {
		if name == node1Column || name == node2Column || name == labelColumn || name == "id" {
			continue
		}

		out = append(out, name)
	}

	return out
}

// Next reads the next record, applying the configured shape policy. It
// returns false at end of file or on error; callers must check Err after a
// false return.
func (r *Reader) Next() ([]string, bool) {
	var (
		line string
		ok   bool
	)

	if r.fromChan {
		line, ok = <-r.lines
	} else {
		ok = r.scanner.Scan()
		line = r.scanner.Text()

		if !ok {
			if err := r.scanner.Err(); err != nil {
				r.err = err
			}
		}
	}

	if !ok {
		if r.fromChan && *r.gunzipErr != nil {
			r.err = *r.gunzipErr
		}

		r.closer.Close()

		return nil, false
	}

	values := strings.Split(line, r.sep)

	if r.requireAll && len(values) < len(r.columnNames) {
		r.err = &kgraph.CompileError{Kind: kgraph.KindRecordShapeError, Phase: "read edge record",
			Message: fmt.Sprintf("required %d columns at line %d, saw %d", len(r.columnNames), r.lineNum, len(values))}

		return nil, false
	}

	if r.prohibitExtra && len(values) > len(r.columnNames) {
		r.err = &kgraph.CompileError{Kind: kgraph.KindRecordShapeError, Phase: "read edge record",
			Message: fmt.Sprintf("required %d columns at line %d, saw %d (%d extra)",
				len(r.columnNames), r.lineNum, len(values), len(values)-len(r.columnNames))}

		return nil, false
	}

	if r.fillMissing {
		for len(values) < len(r.columnNames) {
			values = append(values, "")
		}
	}

	r.lineNum++

	return values, true
}

// Err returns the error that stopped iteration, if any.
func (r *Reader) Err() error { return r.err }

// startGunzipProcess decouples scanning from decompression: a background
// goroutine pulls lines off scanner and hands them to the reader over a
// bounded channel, so the reader never blocks directly on gzip inflate.
// End of stream is signaled by closing the channel rather than an in-band
// sentinel value; any scan error is recorded in *err before the close, which
// happens-before the channel-close receive on the consumer side.
func startGunzipProcess(scanner *bufio.Scanner, queueSize int) (<-chan string, *error) {
	lines := make(chan string, queueSize)
	err := new(error)

	go func() {
		defer close(lines)

		for scanner.Scan() {
			lines <- scanner.Text()
		}

		*err = scanner.Err()
	}()

	return lines, err
}
