// Package restart reads and writes the fixed-layout checkpoint of the
// persistent pools that chains one run into the next.
//
// Layout, little-endian: magic "BGCR", uint32 version, int32 met year,
// then float64 values for the water pools, every carbon pool, every
// nitrogen pool and the four daily turnover increments, in declaration
// order. Source and sink accumulators are not carried over.
package restart

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/san-kum/ecosim/internal/bgc"
)

const Version uint32 = 1

var magic = [4]byte{'B', 'G', 'C', 'R'}

var (
	ErrBadMagic = errors.New("restart: not a restart record")
	ErrVersion  = errors.New("restart: unsupported version")
)

type header struct {
	Magic   [4]byte
	Version uint32
	MetYear int32
}

// values lists the persisted fields of s in record order.
func values(s *bgc.State) []*float64 {
	out := []*float64{&s.Water.SoilW, &s.Water.SnowW, &s.Water.CanopyW}
	for _, p := range s.Carbon.Pools() {
		out = append(out, p.Value)
	}
	for _, p := range s.Nitrogen.Pools() {
		out = append(out, p.Value)
	}
	return append(out,
		&s.EPV.DayLeafCLitfallIncrement,
		&s.EPV.DayFrootCLitfallIncrement,
		&s.EPV.DayLivestemCTurnoverIncrement,
		&s.EPV.DayLivecrootCTurnoverIncrement,
	)
}

// Size is the byte length of a record.
func Size() int {
	return binary.Size(header{}) + 8*len(values(&bgc.State{}))
}

// Write encodes the persistent pools of s.
func Write(w io.Writer, s *bgc.State, metYear int) error {
	h := header{Magic: magic, Version: Version, MetYear: int32(metYear)}
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return err
	}
	ptrs := values(s)
	vals := make([]float64, len(ptrs))
	for i, p := range ptrs {
		vals[i] = *p
	}
	return binary.Write(w, binary.LittleEndian, vals)
}

// Read decodes a record into s, overwriting its pools, and returns the
// met year it was written at.
func Read(r io.Reader, s *bgc.State) (int, error) {
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return 0, fmt.Errorf("read restart header: %w", err)
	}
	if h.Magic != magic {
		return 0, ErrBadMagic
	}
	if h.Version != Version {
		return 0, fmt.Errorf("%w: %d", ErrVersion, h.Version)
	}

	ptrs := values(s)
	vals := make([]float64, len(ptrs))
	if err := binary.Read(r, binary.LittleEndian, vals); err != nil {
		return 0, fmt.Errorf("read restart pools: %w", err)
	}
	for i, p := range ptrs {
		*p = vals[i]
	}
	return int(h.MetYear), nil
}

// Save writes a record to path.
func Save(path string, s *bgc.State, metYear int) error {
	f, err := os.Create(path)
	if err != nil {
		return &bgc.IOError{Op: "create restart", Path: path, Err: err}
	}
	bw := bufio.NewWriter(f)
	if err := Write(bw, s, metYear); err != nil {
		f.Close()
		return &bgc.IOError{Op: "write restart", Path: path, Err: err}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return &bgc.IOError{Op: "write restart", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &bgc.IOError{Op: "close restart", Path: path, Err: err}
	}
	return nil
}

// Load reads a record from path into s.
func Load(path string, s *bgc.State) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, &bgc.IOError{Op: "open restart", Path: path, Err: err}
	}
	defer f.Close()

	metYear, err := Read(bufio.NewReader(f), s)
	if err != nil {
		return 0, &bgc.IOError{Op: "read restart", Path: path, Err: err}
	}
	return metYear, nil
}
