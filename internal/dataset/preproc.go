package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Raw diagnosis labels and the class they map to.
const (
	LabelMalignant = "M"
	LabelBenign    = "B"
)

// Preprocess converts raw records of the form "id,diagnosis,feature..." into
// the "label,feature..." rows Read expects. The id column is dropped, the
// diagnosis M or B becomes 1 or 0, and every feature field is trimmed. Any
// other diagnosis fails with ErrFormat. It returns the number of rows written.
//
// Feature values are copied as text; Read validates them as numbers.
func Preprocess(r io.Reader, w io.Writer) (int, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cw := csv.NewWriter(w)

	var out []string
	n := 0
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, fmt.Errorf("%w: %w", ErrFormat, err)
		}
		if len(rec) < 3 {
			return n, fmt.Errorf("%w: line %d: need an id, a diagnosis and at least one feature", ErrFormat, line)
		}

		out = out[:0]
		switch diag := strings.TrimSpace(rec[1]); diag {
		case LabelMalignant:
			out = append(out, "1")
		case LabelBenign:
			out = append(out, "0")
		default:
			return n, fmt.Errorf("%w: line %d: unknown diagnosis %q", ErrFormat, line, rec[1])
		}
		for _, field := range rec[2:] {
			out = append(out, strings.TrimSpace(field))
		}
		if err := cw.Write(out); err != nil {
			return n, err
		}
		n++
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return n, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: no rows", ErrFormat)
	}
	return n, nil
}

// PreprocessFile runs Preprocess from the file in to the file out.
func PreprocessFile(in, out string) (int, error) {
	src, err := os.Open(in)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	dst, err := os.Create(out)
	if err != nil {
		return 0, err
	}
	n, err := Preprocess(src, dst)
	if err != nil {
		dst.Close()
		return n, fmt.Errorf("%s: %w", in, err)
	}
	return n, dst.Close()
}
