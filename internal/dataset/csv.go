package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/corvvs/mlp/internal/tensor"
)

// Read parses header-less CSV from r. Every record must have the same number
// of fields, at least two; the first field is the 0/1 label.
func Read(r io.Reader) (Set, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var set Set
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Set{}, fmt.Errorf("%w: %w", ErrFormat, err)
		}
		if len(rec) < 2 {
			return Set{}, fmt.Errorf("%w: line %d: need a label and at least one feature", ErrFormat, line)
		}
		label, err := parseField(rec[0], line, 0)
		if err != nil {
			return Set{}, err
		}
		if label != 0 && label != 1 {
			return Set{}, fmt.Errorf("%w: line %d: label %g is neither 0 nor 1", ErrFormat, line, label)
		}
		row := make(tensor.Vector, len(rec)-1)
		for j, field := range rec[1:] {
			if row[j], err = parseField(field, line, j+1); err != nil {
				return Set{}, err
			}
		}
		set.Labels = append(set.Labels, label)
		set.Features = append(set.Features, row)
	}
	if set.Len() == 0 {
		return Set{}, fmt.Errorf("%w: no rows", ErrFormat)
	}
	return set, nil
}

func parseField(s string, line, col int) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: line %d, column %d: %q is not a number", ErrFormat, line, col, s)
	}
	if !tensor.IsFinite(tensor.Vector{v}) {
		return 0, fmt.Errorf("%w: line %d, column %d: %q is not finite", ErrFormat, line, col, s)
	}
	return v, nil
}

// ReadFile reads a CSV data set from path.
func ReadFile(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return Set{}, err
	}
	defer f.Close()

	set, err := Read(f)
	if err != nil {
		return Set{}, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Write encodes s as header-less CSV, label first.
func Write(w io.Writer, s Set) error {
	cw := csv.NewWriter(w)
	rec := make([]string, 0, s.NumFeatures()+1)
	for i, row := range s.Features {
		rec = append(rec[:0], strconv.FormatFloat(s.Labels[i], 'g', -1, 64))
		for _, v := range row {
			rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes s to path as CSV.
func WriteFile(path string, s Set) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
