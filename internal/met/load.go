package met

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/ecosim/internal/bgc"
)

// numColumns is the column count of a data row:
// year yday tmax tmin tday prcp(cm) vpd(Pa) srad(W m⁻²) daylen(s).
const numColumns = 9

// Load reads a whitespace-delimited meteorology file.
func Load(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &bgc.IOError{Op: "open met", Path: path, Err: err}
	}
	defer f.Close()

	rec, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// Parse reads meteorology rows. Lines before the first numeric row are
// treated as header. Every year must carry 365 consecutive rows.
func Parse(r io.Reader) (*Record, error) {
	rec := &Record{}
	sc := bufio.NewScanner(r)
	inData := false
	line := 0

	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		vals, ok := parseRow(fields)
		if !ok {
			if inData {
				return nil, fmt.Errorf("line %d: malformed row %q", line, sc.Text())
			}
			continue
		}
		inData = true

		year, yday := int(vals[0]), int(vals[1])
		pos := len(rec.Tmax) % bgc.DaysPerYear
		if pos == 0 {
			rec.Years = append(rec.Years, year)
		} else if year != rec.Years[len(rec.Years)-1] {
			return nil, fmt.Errorf("line %d: year %d changed after %d days", line, year, pos)
		}
		if yday != pos+1 {
			return nil, fmt.Errorf("line %d: yday %d, want %d", line, yday, pos+1)
		}

		rec.Tmax = append(rec.Tmax, vals[2])
		rec.Tmin = append(rec.Tmin, vals[3])
		rec.Tday = append(rec.Tday, vals[4])
		rec.Prcp = append(rec.Prcp, vals[5]*10) // cm to kg m⁻²
		rec.VPD = append(rec.VPD, vals[6])
		rec.SW = append(rec.SW, vals[7])
		rec.Dayl = append(rec.Dayl, vals[8])
	}
	if err := sc.Err(); err != nil {
		return nil, &bgc.IOError{Op: "read met", Err: err}
	}

	if len(rec.Tmax)%bgc.DaysPerYear != 0 {
		return nil, fmt.Errorf("%w: %d rows is not a whole number of years", bgc.ErrNoMetYears, len(rec.Tmax))
	}
	if rec.NumYears() == 0 {
		return nil, bgc.ErrNoMetYears
	}
	rec.derive()
	return rec, nil
}

func parseRow(fields []string) ([]float64, bool) {
	if len(fields) < numColumns {
		return nil, false
	}
	vals := make([]float64, numColumns)
	for i := 0; i < numColumns; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, false
		}
		vals[i] = v
	}
	return vals, true
}

// Write emits a record in the format Parse reads.
func Write(w io.Writer, rec *Record) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "ecosim daily meteorology")
	fmt.Fprintln(bw, "year yday tmax tmin tday prcp vpd srad daylen")
	fmt.Fprintln(bw, "     (deg C) (deg C) (deg C) (cm) (Pa) (W m-2) (s)")
	for y, year := range rec.Years {
		for d := 0; d < bgc.DaysPerYear; d++ {
			i := y*bgc.DaysPerYear + d
			fmt.Fprintf(bw, "%d %d %.2f %.2f %.2f %.3f %.2f %.2f %.0f\n",
				year, d+1, rec.Tmax[i], rec.Tmin[i], rec.Tday[i], rec.Prcp[i]/10, rec.VPD[i], rec.SW[i], rec.Dayl[i])
		}
	}
	return bw.Flush()
}
