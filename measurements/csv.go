package measurements

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Layout describes how numeric columns after (frame, label, secondary) are interpreted
type Layout string

const (
	// LayoutFeatures keeps numeric columns as they are
	LayoutFeatures Layout = "features"
	// LayoutBBox expects exactly four columns x,y,w,h and turns them into [cx, cy, w, h]
	LayoutBBox Layout = "bbox"
)

// ParseLayout converts string to Layout
func ParseLayout(s string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(s))) {
	case LayoutFeatures, "":
		return LayoutFeatures, nil
	case LayoutBBox:
		return LayoutBBox, nil
	default:
		return "", errors.Errorf("unknown layout '%s'", s)
	}
}

const fixedColumns = 3

// LoadCSV reads measurements table from file
func LoadCSV(path string, layout Layout, comma rune) (Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't open measurements file '%s'", path)
	}
	defer file.Close()
	table, err := ReadCSV(file, layout, comma)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't read measurements file '%s'", path)
	}
	return table, nil
}

// ReadCSV parses rows 'frame,label,secondary,f0,f1,...'.
// A first row whose frame column is not an integer is treated as header.
// Lines starting with '#' are ignored.
func ReadCSV(r io.Reader, layout Layout, comma rune) (Table, error) {
	reader := csv.NewReader(r)
	if comma != 0 {
		reader.Comma = comma
	}
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	table := make(Table, 0, 1024)
	width := -1
	for row := 0; ; row++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", row)
		}
		if row == 0 {
			if _, err := strconv.Atoi(strings.TrimSpace(fields[0])); err != nil {
				continue
			}
		}
		if width < 0 {
			width = len(fields)
		}
		if len(fields) != width {
			return nil, errors.Errorf("row %d has %d columns, expected %d", row, len(fields), width)
		}
		rec, err := parseRecord(fields, layout)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", row)
		}
		table = append(table, rec)
	}
	return table, nil
}

func parseRecord(fields []string, layout Layout) (Record, error) {
	if len(fields) < fixedColumns {
		return Record{}, errors.Errorf("need at least %d columns, got %d", fixedColumns, len(fields))
	}
	ints := [fixedColumns]int{}
	for i := 0; i < fixedColumns; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(fields[i]))
		if err != nil {
			return Record{}, errors.Wrapf(err, "column %d", i)
		}
		ints[i] = v
	}
	if ints[1] < Unlabeled {
		return Record{}, errors.Wrapf(ErrBadLabel, "got %d", ints[1])
	}
	values := make([]float64, len(fields)-fixedColumns)
	for i := range values {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[fixedColumns+i]), 64)
		if err != nil {
			return Record{}, errors.Wrapf(err, "column %d", fixedColumns+i)
		}
		values[i] = v
	}
	if layout == LayoutBBox {
		if len(values) != 4 {
			return Record{}, errors.Errorf("bbox layout needs 4 numeric columns, got %d", len(values))
		}
		values = NewRect(values[0], values[1], values[2], values[3]).Features()
	}
	return Record{
		Frame:     ints[0],
		Label:     ints[1],
		Secondary: ints[2],
		Features:  values,
	}, nil
}
