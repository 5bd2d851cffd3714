package output

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/san-kum/ecosim/internal/bgc"
)

// Writer emits one fixed-width record per call: a little-endian float32 for
// each selected variable. An optional tab-delimited text file mirrors the
// binary stream with a year/yday prefix.
type Writer struct {
	vars []Var
	buf  []byte

	bin     *os.File
	binw    *bufio.Writer
	text    *os.File
	textw   *bufio.Writer
	records int
}

// Create opens path+".bin" and, when text is set, path+".txt".
func Create(path string, vars []Var, text bool) (*Writer, error) {
	w := &Writer{vars: vars, buf: make([]byte, 4*len(vars))}

	f, err := os.Create(path + ".bin")
	if err != nil {
		return nil, &bgc.IOError{Op: "create output", Path: path + ".bin", Err: err}
	}
	w.bin, w.binw = f, bufio.NewWriter(f)

	if text {
		t, err := os.Create(path + ".txt")
		if err != nil {
			f.Close()
			return nil, &bgc.IOError{Op: "create output", Path: path + ".txt", Err: err}
		}
		w.text, w.textw = t, bufio.NewWriter(t)
		names := make([]string, len(vars))
		for i, v := range vars {
			names[i] = v.Name
		}
		fmt.Fprintf(w.textw, "year\tyday\t%s\n", strings.Join(names, "\t"))
	}
	return w, nil
}

// Record writes the selected variables for one day or year. Annual records
// use yday -1 in the text mirror.
func (w *Writer) Record(year, yday int, s *bgc.State, f *bgc.Flux, sum *bgc.Summary) error {
	for i, v := range w.vars {
		binary.LittleEndian.PutUint32(w.buf[4*i:], math.Float32bits(float32(v.Get(s, f, sum))))
	}
	if _, err := w.binw.Write(w.buf); err != nil {
		return &bgc.IOError{Op: "write output", Path: w.bin.Name(), Err: err}
	}
	if w.textw != nil {
		fmt.Fprintf(w.textw, "%d\t%d", year, yday)
		for i := range w.vars {
			v := math.Float32frombits(binary.LittleEndian.Uint32(w.buf[4*i:]))
			fmt.Fprintf(w.textw, "\t%g", v)
		}
		if _, err := w.textw.WriteString("\n"); err != nil {
			return &bgc.IOError{Op: "write output", Path: w.text.Name(), Err: err}
		}
	}
	w.records++
	return nil
}

// Records is the number of records written.
func (w *Writer) Records() int { return w.records }

func (w *Writer) Close() error {
	var first error
	if err := w.binw.Flush(); err != nil {
		first = err
	}
	if err := w.bin.Close(); err != nil && first == nil {
		first = err
	}
	if w.text != nil {
		if err := w.textw.Flush(); err != nil && first == nil {
			first = err
		}
		if err := w.text.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ReadRecords decodes a binary output stream with nvars columns.
func ReadRecords(r io.Reader, nvars int) ([][]float32, error) {
	var out [][]float32
	for {
		rec := make([]float32, nvars)
		err := binary.Read(r, binary.LittleEndian, rec)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}
