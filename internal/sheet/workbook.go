// Package sheet reads budget workbooks: the wide-format actuals sheet and
// one budget sheet per project.
package sheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors returned by the loader.
var (
	ErrUnsupportedFormat = errors.New("unsupported workbook format")
	ErrNoActualsSheet    = errors.New("actuals sheet not found")
	ErrNoBudgetSheet     = errors.New("budget sheet not found")
	ErrActualsLayout     = errors.New("actuals header row not found")
	ErrBudgetLayout      = errors.New("budget header row not found")
)

// Format identifies the on-disk workbook encoding.
type Format int

// Supported formats.
const (
	FormatXLSX Format = iota
	FormatXLS
)

func (f Format) String() string {
	if f == FormatXLS {
		return "xls"
	}
	return "xlsx"
}

// FormatFromPath picks the reader from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

// Workbook is a fully loaded workbook: every sheet as a grid of cell text.
type Workbook struct {
	Path   string
	Format Format

	order  []string
	sheets map[string][][]string
}

// Open reads the workbook at path into memory.
func Open(path string) (*Workbook, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // workbook path is chosen by the local user
	if err != nil {
		return nil, fmt.Errorf("reading workbook: %w", err)
	}

	wb, err := OpenReader(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	wb.Path = path
	return wb, nil
}

// OpenReader reads a workbook of the given format from r.
func OpenReader(r io.ReadSeeker, format Format) (*Workbook, error) {
	switch format {
	case FormatXLSX:
		return readXLSX(r)
	case FormatXLS:
		return readXLS(r)
	}
	return nil, ErrUnsupportedFormat
}

// FromRows builds an in-memory workbook. Sheets keep the order of names.
func FromRows(names []string, sheets map[string][][]string) *Workbook {
	wb := newWorkbook(FormatXLSX)
	for _, name := range names {
		wb.add(name, sheets[name])
	}
	return wb
}

func newWorkbook(format Format) *Workbook {
	return &Workbook{
		Format: format,
		sheets: make(map[string][][]string),
	}
}

func (w *Workbook) add(name string, rows [][]string) {
	if _, ok := w.sheets[name]; !ok {
		w.order = append(w.order, name)
	}
	w.sheets[name] = rows
}

// SheetNames returns sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	out := make([]string, len(w.order))
	copy(out, w.order)
	return out
}

// Rows returns the raw grid of a sheet found by trimmed, case-insensitive name.
func (w *Workbook) Rows(name string) ([][]string, bool) {
	actual, ok := w.lookup(name)
	if !ok {
		return nil, false
	}
	return w.sheets[actual], true
}

// HasSheet reports whether a sheet with the given name exists.
func (w *Workbook) HasSheet(name string) bool {
	_, ok := w.lookup(name)
	return ok
}

// Sheet names in real workbooks carry stray trailing spaces ("Revenue Actuals ").
func (w *Workbook) lookup(name string) (string, bool) {
	if _, ok := w.sheets[name]; ok {
		return name, true
	}
	want := strings.TrimSpace(name)
	for _, n := range w.order {
		if strings.EqualFold(strings.TrimSpace(n), want) {
			return n, true
		}
	}
	return "", false
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
