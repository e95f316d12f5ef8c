// Package datatable converts spreadsheet workbooks into JSON data tables.
//
// Every sheet of every workbook in the source directory becomes one JSON file
// named after the sheet. A configurable header row names the columns; each row
// below it becomes one object. Optionally the tables are also archived into a
// SQLite database, one conversion run at a time.
package datatable

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// lockPrefix marks the lock files spreadsheet editors leave next to open
// workbooks.
const lockPrefix = "~$"

// ErrNoHeader is returned when the header row is not a positive row number.
var ErrNoHeader = errors.New("datatable: header row must be 1 or greater")

// Config controls a conversion run.
type Config struct {
	Head   int    `mapstructure:"head"`   // 1-based header row
	Src    string `mapstructure:"src"`    // directory holding *.xlsx workbooks
	Dest   string `mapstructure:"dest"`   // directory receiving <sheet>.json
	SQLite string `mapstructure:"sqlite"` // optional archive database
}

// Validate reports the first problem with c.
func (c Config) Validate() error {
	if c.Head < 1 {
		return fmt.Errorf("%w, got %d", ErrNoHeader, c.Head)
	}
	if c.Src == "" {
		return errors.New("datatable: source directory is required")
	}
	if c.Dest == "" {
		return errors.New("datatable: destination directory is required")
	}
	return nil
}

// Record is one data row keyed by column header.
type Record map[string]any

// Table is the content of one sheet.
type Table struct {
	Sheet    string
	Workbook string
	Records  []Record
}

// Report summarizes a conversion run.
type Report struct {
	RunID     string
	Workbooks int
	Tables    []string
}

// Convert reads every workbook under cfg.Src and writes one JSON file per
// sheet into cfg.Dest. A sheet name seen in more than one workbook is written
// by the last workbook in directory order.
func Convert(ctx context.Context, cfg Config, logger *log.Logger) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	entries, err := os.ReadDir(cfg.Src)
	if err != nil {
		return nil, fmt.Errorf("datatable: cannot read source directory: %w", err)
	}
	if err := os.MkdirAll(cfg.Dest, 0o755); err != nil {
		return nil, fmt.Errorf("datatable: cannot create directory %s: %w", cfg.Dest, err)
	}

	report := &Report{RunID: uuid.NewString()}
	logger = logger.With("run", report.RunID)

	var all []Table
	seen := make(map[string]string)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, lockPrefix) || !strings.EqualFold(filepath.Ext(name), ".xlsx") {
			continue
		}
		path := filepath.Join(cfg.Src, name)
		tables, err := ReadWorkbook(path, cfg.Head)
		if err != nil {
			return nil, err
		}
		report.Workbooks++
		for _, t := range tables {
			if prev, dup := seen[t.Sheet]; dup {
				logger.Warn("sheet overwritten", "sheet", t.Sheet, "first", prev, "second", name)
			} else {
				report.Tables = append(report.Tables, t.Sheet)
			}
			seen[t.Sheet] = name
			if err := writeTable(cfg.Dest, t); err != nil {
				return nil, err
			}
			logger.Info("table written", "sheet", t.Sheet, "workbook", name, "records", len(t.Records))
		}
		all = append(all, tables...)
	}

	if cfg.SQLite != "" {
		store, err := Open(cfg.SQLite)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		if err := store.SaveRun(ctx, report.RunID, cfg.Src, all); err != nil {
			return nil, err
		}
		logger.Info("archived", "db", cfg.SQLite, "tables", len(all))
	}
	return report, nil
}

// ReadWorkbook parses every sheet of the workbook at path. head is the 1-based
// header row; rows above it are ignored and rows below it become records.
func ReadWorkbook(path string, head int) ([]Table, error) {
	if head < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrNoHeader, head)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("datatable: cannot open %s: %w", path, err)
	}
	defer f.Close()

	var tables []Table
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("datatable: cannot read sheet %s of %s: %w", sheet, path, err)
		}
		t := Table{Sheet: sheet, Workbook: filepath.Base(path), Records: []Record{}}
		if len(rows) < head {
			tables = append(tables, t)
			continue
		}
		keys := rows[head-1]
		for i := head; i < len(rows); i++ {
			rec, err := readRecord(f, sheet, keys, rows[i], i+1)
			if err != nil {
				return nil, err
			}
			if len(rec) > 0 {
				t.Records = append(t.Records, rec)
			}
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// readRecord converts one row. Columns without a header and empty cells are
// left out.
func readRecord(f *excelize.File, sheet string, keys, row []string, rowNum int) (Record, error) {
	rec := Record{}
	for col, raw := range row {
		if col >= len(keys) {
			break
		}
		key := strings.TrimSpace(keys[col])
		if key == "" || raw == "" {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return nil, err
		}
		typ, err := f.GetCellType(sheet, cell)
		if err != nil {
			return nil, fmt.Errorf("datatable: cannot read cell %s!%s: %w", sheet, cell, err)
		}
		rec[key] = cellValue(typ, raw)
	}
	return rec, nil
}

// cellValue maps a cell's text to a JSON value: booleans for boolean cells
// and the words true/false, numbers for numeric cells, strings otherwise. Text
// cells stay text even when they look like numbers, so "007" keeps its zeros.
func cellValue(typ excelize.CellType, raw string) any {
	if typ == excelize.CellTypeBool {
		return raw == "1" || strings.EqualFold(raw, "true")
	}
	switch {
	case strings.EqualFold(raw, "true"):
		return true
	case strings.EqualFold(raw, "false"):
		return false
	}
	if typ != excelize.CellTypeNumber && typ != excelize.CellTypeUnset {
		return raw
	}
	if strings.ContainsAny(raw, "xX_pP") {
		return raw
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return raw
	}
	return v
}

func writeTable(dir string, t Table) error {
	data, err := json.MarshalIndent(t.Records, "", "  ")
	if err != nil {
		return fmt.Errorf("datatable: cannot encode sheet %s: %w", t.Sheet, err)
	}
	path := filepath.Join(dir, t.Sheet+".json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("datatable: cannot write %s: %w", path, err)
	}
	return nil
}
