package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"
)

type ExportData struct {
	Run    RunMetadata `json:"run"`
	Header []string    `json:"header"`
	Rows   [][]float64 `json:"rows"`
}

func ExportJSON(path string, meta RunMetadata, table Table) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, meta, table)
}

func WriteJSON(w io.Writer, meta RunMetadata, table Table) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: meta, Header: table.Header, Rows: table.Rows})
}

func ExportCSV(path string, table Table) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteCSV(file, table)
}

func WriteCSV(out io.Writer, table Table) error {
	w := csv.NewWriter(out)
	if len(table.Header) > 0 {
		if err := w.Write(table.Header); err != nil {
			return err
		}
	}
	for _, row := range table.Rows {
		record := make([]string, len(row))
		for i, val := range row {
			record[i] = strconv.FormatFloat(val, 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
