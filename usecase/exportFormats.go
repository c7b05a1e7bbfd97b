package usecase

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/xuri/excelize/v2"

	"github.com/mdblp/health-tracker/schema"
)

// exportSection the rows of one kind of entry
type exportSection struct {
	name    string
	records []map[string]interface{}
}

type exportDataset struct {
	metadata schema.ExportMetadata
	sections []exportSection
}

func (d *exportDataset) nonEmpty() []exportSection {
	sections := make([]exportSection, 0, len(d.sections))
	for _, s := range d.sections {
		if len(s.records) > 0 {
			sections = append(sections, s)
		}
	}
	return sections
}

func writeJSONFile(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err = encoder.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeJSONExport a single document: metadata plus one array per selected type
func writeJSONExport(path string, data *exportDataset) error {
	doc := map[string]interface{}{"metadata": data.metadata}
	for _, s := range data.sections {
		doc[s.name] = s.records
	}
	return writeJSONFile(path, doc)
}

func writeCsvExport(dir string, data *exportDataset) error {
	if err := writeJSONFile(filepath.Join(dir, "metadata.json"), data.metadata); err != nil {
		return err
	}
	sections := data.nonEmpty()
	for _, s := range sections {
		buffer, err := recordsToCsv(s.records)
		if err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
		if err = os.WriteFile(filepath.Join(dir, s.name+".csv"), buffer.Bytes(), 0o644); err != nil {
			return err
		}
	}

	var readme strings.Builder
	readme.WriteString("Health Tracker Data Export\n")
	fmt.Fprintf(&readme, "Date Range: %s to %s\n", data.metadata.StartDate, data.metadata.EndDate)
	fmt.Fprintf(&readme, "Export Date: %s\n\n", data.metadata.ExportDate)
	readme.WriteString("Files included:\n")
	for _, s := range sections {
		fmt.Fprintf(&readme, "  - %s.csv\n", s.name)
	}
	return os.WriteFile(filepath.Join(dir, "README.txt"), []byte(readme.String()), 0o644)
}

func writeParquetExport(dir string, data *exportDataset) error {
	if err := writeJSONFile(filepath.Join(dir, "metadata.json"), data.metadata); err != nil {
		return err
	}
	for _, s := range data.nonEmpty() {
		if err := writeParquetFile(filepath.Join(dir, s.name+".parquet"), s.name, s.records); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

type columnKind int

const (
	columnString columnKind = iota
	columnDouble
	columnBoolean
)

// columnKinds a column is numeric or boolean when every non null value is, text otherwise
func columnKinds(columns []string, rows []map[string]interface{}) map[string]columnKind {
	kinds := make(map[string]columnKind, len(columns))
	for _, column := range columns {
		kind, seen := columnString, false
		for _, row := range rows {
			var k columnKind
			switch row[column].(type) {
			case nil:
				continue
			case json.Number:
				k = columnDouble
			case bool:
				k = columnBoolean
			default:
				k = columnString
			}
			if !seen {
				kind, seen = k, true
			} else if kind != k {
				kind = columnString
				break
			}
		}
		kinds[column] = kind
	}
	return kinds
}

func parquetNode(kind columnKind) parquet.Node {
	switch kind {
	case columnDouble:
		return parquet.Optional(parquet.Leaf(parquet.DoubleType))
	case columnBoolean:
		return parquet.Optional(parquet.Leaf(parquet.BooleanType))
	}
	return parquet.Optional(parquet.String())
}

func parquetValue(kind columnKind, value interface{}) parquet.Value {
	if value == nil {
		return parquet.Value{}
	}
	switch kind {
	case columnDouble:
		if n, ok := value.(json.Number); ok {
			if f, err := n.Float64(); err == nil {
				return parquet.DoubleValue(f)
			}
		}
		return parquet.Value{}
	case columnBoolean:
		b, _ := value.(bool)
		return parquet.BooleanValue(b)
	}
	return parquet.ByteArrayValue([]byte(cellText(value)))
}

// writeParquetFile the schema is built from the data: one optional column per flattened key
func writeParquetFile(path string, name string, records []map[string]interface{}) error {
	columns := columnsOf(records)
	rows := make([]map[string]interface{}, 0, len(records))
	for _, record := range records {
		rows = append(rows, flatten(record, columns))
	}
	kinds := columnKinds(columns, rows)
	group := parquet.Group{}
	for _, column := range columns {
		group[column] = parquetNode(kinds[column])
	}
	parquetSchema := parquet.NewSchema(name, group)

	// leaf order of the schema, independent of the map iteration order
	order := parquetSchema.Columns()
	parquetRows := make([]parquet.Row, 0, len(rows))
	for _, row := range rows {
		parquetRow := make(parquet.Row, len(order))
		for i, path := range order {
			column := path[0]
			value := parquetValue(kinds[column], row[column])
			definition := 1
			if value.IsNull() {
				definition = 0
			}
			parquetRow[i] = value.Level(0, definition, i)
		}
		parquetRows = append(parquetRows, parquetRow)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	writer := parquet.NewWriter(f, parquetSchema)
	if _, err = writer.WriteRows(parquetRows); err != nil {
		f.Close()
		return err
	}
	if err = writer.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeXlsxExport a metadata sheet then one sheet per non empty type
func writeXlsxExport(path string, data *exportDataset) error {
	f := excelize.NewFile()
	defer f.Close()

	const metadataSheet = "metadata"
	if err := f.SetSheetName("Sheet1", metadataSheet); err != nil {
		return err
	}
	meta := [][]interface{}{
		{"export_date", data.metadata.ExportDate},
		{"start_date", data.metadata.StartDate},
		{"end_date", data.metadata.EndDate},
		{"user_id", data.metadata.UserID},
	}
	for i, row := range meta {
		if err := setSheetRow(f, metadataSheet, i+1, row); err != nil {
			return err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	for _, s := range data.nonEmpty() {
		if _, err = f.NewSheet(s.name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", s.name, err)
		}
		columns := columnsOf(s.records)
		header := make([]interface{}, len(columns))
		for i, c := range columns {
			header[i] = c
		}
		if err = setSheetRow(f, s.name, 1, header); err != nil {
			return err
		}
		last, _ := excelize.CoordinatesToCellName(len(columns), 1)
		if err = f.SetCellStyle(s.name, "A1", last, headerStyle); err != nil {
			return err
		}
		for r, record := range s.records {
			flat := flatten(record, columns)
			row := make([]interface{}, len(columns))
			for i, c := range columns {
				row[i] = xlsxValue(flat[c])
			}
			if err = setSheetRow(f, s.name, r+2, row); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}

func setSheetRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func xlsxValue(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case bool:
		return v
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	}
	return cellText(value)
}

// zipDirectory pack the regular files of dir, flat, into target
func zipDirectory(dir string, target string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	archive := zip.NewWriter(out)
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if err = addToZip(archive, filepath.Join(dir, entry.Name()), entry.Name()); err != nil {
			archive.Close()
			out.Close()
			return err
		}
	}
	if err = archive.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func addToZip(archive *zip.Writer, path string, name string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()
	w, err := archive.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, in)
	return err
}
