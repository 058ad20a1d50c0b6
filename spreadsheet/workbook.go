package spreadsheet

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/raushankrgupta/contact-form-service/models"
	"github.com/xuri/excelize/v2"
)

// ColumnPadding is added to the widest cell of every column.
const ColumnPadding = 2

// excelize rejects anything wider.
const maxColumnWidth = 255

// blankHeaderKey names a column whose header cell is empty. Further blank
// columns get a numeric suffix: __EMPTY_1, __EMPTY_2 and so on.
const blankHeaderKey = "__EMPTY"

// ErrCellTooLong is returned when a value does not fit in one cell.
var ErrCellTooLong = fmt.Errorf("value exceeds %d characters", excelize.TotalCellChars)

// FileAccessError reports a failure reading or writing the workbook.
type FileAccessError struct {
	Path string
	Op   string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("spreadsheet %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// sheetData is the decoded content of one sheet.
type sheetData struct {
	header  []string
	blank   map[string]bool
	rows    []models.Row
	rawRows int
	rawCols int
}

// ReadRows decodes every data row of sheet. A missing sheet yields no rows.
func ReadRows(path, sheet string) ([]models.Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, &FileAccessError{Path: path, Op: "read", Err: err}
	}
	if idx == -1 {
		return nil, nil
	}

	data, err := readSheet(f, sheet)
	if err != nil {
		return nil, &FileAccessError{Path: path, Op: "read", Err: err}
	}
	return data.rows, nil
}

// ColumnWidths returns the display width of each header column:
// the longest of the header label and every cell below it, plus padding.
func ColumnWidths(header []string, rows []models.Row) []int {
	return columnWidths(header, header, rows)
}

// columnWidths measures the label shown in the header row, which is blank
// for synthetic keys.
func columnWidths(keys, labels []string, rows []models.Row) []int {
	widths := make([]int, len(keys))
	for i, key := range keys {
		w := utf8.RuneCountInString(labels[i])
		for _, r := range rows {
			if v, ok := r.Get(key); ok {
				if n := utf8.RuneCountInString(v); n > w {
					w = n
				}
			}
		}
		widths[i] = w + ColumnPadding
	}
	return widths
}

// MergeHeader extends header with every key of rows it does not know yet,
// in the order the keys first appear.
func MergeHeader(header []string, rows []models.Row) []string {
	merged := append([]string(nil), header...)
	seen := make(map[string]bool, len(merged))
	for _, k := range merged {
		seen[k] = true
	}
	for _, r := range rows {
		for _, f := range r {
			if !seen[f.Key] {
				seen[f.Key] = true
				merged = append(merged, f.Key)
			}
		}
	}
	return merged
}

// appendRow runs one full read-merge-rewrite cycle for a single row.
func appendRow(path, sheet string, row models.Row) (int, error) {
	f, err := openOrCreate(path, sheet)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	data, err := readSheet(f, sheet)
	if err != nil {
		return 0, &FileAccessError{Path: path, Op: "read", Err: err}
	}

	data.rows = append(data.rows, row)
	if err := writeSheet(f, sheet, data); err != nil {
		return 0, &FileAccessError{Path: path, Op: "encode", Err: err}
	}

	if err := save(f, path); err != nil {
		return 0, err
	}
	return len(data.rows), nil
}

func openOrCreate(path, sheet string) (*excelize.File, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		f := excelize.NewFile()
		if def := f.GetSheetName(0); def != sheet {
			if err := f.SetSheetName(def, sheet); err != nil {
				f.Close()
				return nil, &FileAccessError{Path: path, Op: "create", Err: err}
			}
		}
		return f, nil
	} else if err != nil {
		return nil, &FileAccessError{Path: path, Op: "stat", Err: err}
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Op: "open", Err: err}
	}

	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		f.Close()
		return nil, &FileAccessError{Path: path, Op: "open", Err: err}
	}
	if idx == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			f.Close()
			return nil, &FileAccessError{Path: path, Op: "create", Err: err}
		}
	}
	return f, nil
}

// readSheet treats the first row as the header. Blank cells are left out of
// the row and fully blank rows are dropped. Columns without a header label are
// keyed __EMPTY, __EMPTY_1, ... so their cells survive a rewrite.
func readSheet(f *excelize.File, sheet string) (*sheetData, error) {
	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	data := &sheetData{rawRows: len(raw), blank: map[string]bool{}}
	for _, r := range raw {
		if len(r) > data.rawCols {
			data.rawCols = len(r)
		}
	}
	if len(raw) == 0 {
		return data, nil
	}

	data.header = make([]string, data.rawCols)
	copy(data.header, raw[0])
	taken := make(map[string]bool, len(data.header))
	for _, h := range data.header {
		taken[h] = true
	}
	next := 0
	for i, h := range data.header {
		if h != "" {
			continue
		}
		key := blankHeaderKey
		for ; taken[key]; next++ {
			key = fmt.Sprintf("%s_%d", blankHeaderKey, next+1)
		}
		taken[key] = true
		data.header[i] = key
		data.blank[key] = true
	}

	for _, cells := range raw[1:] {
		var row models.Row
		for i, v := range cells {
			if v == "" {
				continue
			}
			row = append(row, models.Field{Key: data.header[i], Value: v})
		}
		if len(row) > 0 {
			data.rows = append(data.rows, row)
		}
	}
	return data, nil
}

// writeSheet replaces the sheet content with data. Leftover cells and rows
// from the previous layout are blanked or removed so nothing stale survives.
func writeSheet(f *excelize.File, sheet string, data *sheetData) error {
	header := MergeHeader(data.header, data.rows)
	width := len(header)
	if data.rawCols > width {
		width = data.rawCols
	}

	labels := make([]string, len(header))
	line := make([]interface{}, width)
	for i := range line {
		line[i] = ""
	}
	for i, h := range header {
		if !data.blank[h] {
			labels[i] = h
		}
		line[i] = labels[i]
	}
	if err := f.SetSheetRow(sheet, "A1", &line); err != nil {
		return err
	}

	for n, r := range data.rows {
		for _, field := range r {
			if utf8.RuneCountInString(field.Value) > excelize.TotalCellChars {
				return fmt.Errorf("row %d column %s: %w", n+2, field.Key, ErrCellTooLong)
			}
		}
	}

	for n, r := range data.rows {
		cells := make([]interface{}, width)
		for i := range cells {
			cells[i] = ""
		}
		for i, h := range header {
			if v, ok := r.Get(h); ok {
				cells[i] = v
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}

	for r := data.rawRows; r > len(data.rows)+1; r-- {
		if err := f.RemoveRow(sheet, r); err != nil {
			return err
		}
	}

	for i, w := range columnWidths(header, labels, data.rows) {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if w > maxColumnWidth {
			w = maxColumnWidth
		}
		if err := f.SetColWidth(sheet, col, col, float64(w)); err != nil {
			return err
		}
	}
	return nil
}

// save writes the workbook next to path and renames it into place, so a
// failed write never leaves a truncated log behind.
func save(f *excelize.File, path string) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+"-*.tmp")
	if err != nil {
		return &FileAccessError{Path: path, Op: "write", Err: err}
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if err := tmp.Chmod(0o644); err != nil {
		cleanup()
		return &FileAccessError{Path: path, Op: "write", Err: err}
	}
	if _, err := f.WriteTo(tmp); err != nil {
		cleanup()
		return &FileAccessError{Path: path, Op: "write", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return &FileAccessError{Path: path, Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &FileAccessError{Path: path, Op: "write", Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &FileAccessError{Path: path, Op: "write", Err: err}
	}
	return nil
}
