package util

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Header is the CSV header shared by measured and modelled rows.
var Header = []string{
	"testname", "width", "height", "num_seams_removed",
	"grey", "conv", "convp", "pathsum", "minpath", "rmpath", "malloc", "total",
}

// Row is one line of performance data: either one trial of one carver
// invocation or one evaluation of the peak model.
type Row struct {
	TestName string
	Width    int
	Height   int
	Seams    int
	Breakdown
}

// Record renders the row as exactly len(Header) fields.
func (r Row) Record() []string {
	rec := make([]string, 0, len(Header))
	rec = append(rec, r.TestName, strconv.Itoa(r.Width), strconv.Itoa(r.Height), strconv.Itoa(r.Seams))
	for _, v := range r.values() {
		rec = append(rec, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return rec
}

// ParseRecord is the inverse of Row.Record.
func ParseRecord(rec []string) (Row, error) {
	if len(rec) != len(Header) {
		return Row{}, fmt.Errorf("want %d fields, got %d", len(Header), len(rec))
	}
	var r Row
	var err error
	r.TestName = strings.TrimSpace(rec[0])
	ints := []*int{&r.Width, &r.Height, &r.Seams}
	for i, p := range ints {
		if *p, err = strconv.Atoi(strings.TrimSpace(rec[1+i])); err != nil {
			return Row{}, fmt.Errorf("field %s: %w", Header[1+i], err)
		}
	}
	values := make([]float64, StageCount)
	for i := range values {
		if values[i], err = strconv.ParseFloat(strings.TrimSpace(rec[4+i]), 64); err != nil {
			return Row{}, fmt.Errorf("field %s: %w", Header[4+i], err)
		}
	}
	r.Breakdown = breakdownOf(values)
	return r, nil
}

// CSVWriter writes rows as soon as they are produced, header first.
type CSVWriter struct {
	w           *csv.Writer
	wroteHeader bool
}

func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

// WriteHeader writes the header line unless it was already written.
func (c *CSVWriter) WriteHeader() error {
	if c.wroteHeader {
		return nil
	}
	c.wroteHeader = true
	return c.flush(Header)
}

// Write writes one row, preceded by the header on first use.
func (c *CSVWriter) Write(r Row) error {
	if err := c.WriteHeader(); err != nil {
		return err
	}
	return c.flush(r.Record())
}

func (c *CSVWriter) flush(rec []string) error {
	if err := c.w.Write(rec); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}

// ReadRows reads a CSV stream written by CSVWriter. Header lines are
// skipped wherever they appear.
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	var rows []Row
	for n := 1; ; n++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		if len(rec) > 0 && rec[0] == Header[0] {
			continue
		}
		row, err := ParseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", n, err)
		}
		rows = append(rows, row)
	}
}
