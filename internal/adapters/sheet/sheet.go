// Package sheet imports waypoints from spreadsheets with Address, Latitude
// and Longitude columns (xlsx or csv).
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"waypoint-route-service/internal/domain"
)

var ErrMissingColumn = errors.New("missing required column")

type columns struct {
	address, lat, lng  int
	name, propertyType int
}

var headerAliases = map[string][]string{
	"address":  {"address"},
	"lat":      {"latitude", "lat"},
	"lng":      {"longitude", "lng", "lon"},
	"name":     {"name"},
	"property": {"property type", "property_type", "propertytype"},
}

// ReadFile loads locations from path, picking the reader by extension.
func ReadFile(path string) ([]domain.Location, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read sheet: open: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(f)
	case ".csv":
		return ReadCSV(f)
	default:
		return nil, fmt.Errorf("read sheet: unsupported file type %q", filepath.Ext(path))
	}
}

// ReadXLSX reads the first worksheet of a workbook.
func ReadXLSX(r io.Reader) ([]domain.Location, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("read xlsx: open: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("read xlsx: workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read xlsx: rows: %w", err)
	}
	return ParseRows(rows)
}

func ReadCSV(r io.Reader) ([]domain.Location, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return ParseRows(rows)
}

// ParseRows turns a header row plus data rows into locations, in row order.
// Header names are matched case-insensitively and may appear in any order.
// Rows with a blank address or unparsable coordinates are skipped.
func ParseRows(rows [][]string) ([]domain.Location, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("parse rows: %w: sheet is empty", ErrMissingColumn)
	}

	cols, err := findColumns(rows[0])
	if err != nil {
		return nil, fmt.Errorf("parse rows: %w", err)
	}

	var out []domain.Location
	for _, row := range rows[1:] {
		address := cell(row, cols.address)
		if address == "" {
			continue
		}

		lat, err1 := parseCoord(cell(row, cols.lat))
		lng, err2 := parseCoord(cell(row, cols.lng))
		if err1 != nil || err2 != nil {
			continue
		}
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			continue
		}

		name := cell(row, cols.name)
		if name == "" {
			name = address
		}

		out = append(out, domain.NewLocation(
			lat,
			lng,
			address,
			name,
			domain.PropertyType(cell(row, cols.propertyType)),
		))
	}
	return out, nil
}

func findColumns(header []string) (columns, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, seen := idx[key]; !seen {
			idx[key] = i
		}
	}

	lookup := func(field string) int {
		for _, alias := range headerAliases[field] {
			if i, ok := idx[alias]; ok {
				return i
			}
		}
		return -1
	}

	cols := columns{
		address:      lookup("address"),
		lat:          lookup("lat"),
		lng:          lookup("lng"),
		name:         lookup("name"),
		propertyType: lookup("property"),
	}

	var missing []string
	if cols.address < 0 {
		missing = append(missing, "Address")
	}
	if cols.lat < 0 {
		missing = append(missing, "Latitude")
	}
	if cols.lng < 0 {
		missing = append(missing, "Longitude")
	}
	if len(missing) > 0 {
		return columns{}, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseCoord accepts both "33.64" and the decimal-comma form "33,64".
func parseCoord(val string) (float64, error) {
	val = strings.TrimSpace(strings.ReplaceAll(val, ",", "."))
	if val == "" {
		return 0, errors.New("empty coordinate")
	}
	return strconv.ParseFloat(val, 64)
}
