package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadPoints parses two-column pressure,loading data. A first row that
// does not parse as numbers is taken as a header; lines starting with #
// are skipped.
func ReadPoints(in io.Reader) (pressure, loading []float64, err error) {
	r := csv.NewReader(in)
	r.Comment = '#'
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	for i, record := range records {
		if len(record) < 2 {
			return nil, nil, fmt.Errorf("line %d: want pressure,loading, got %d fields", i+1, len(record))
		}
		p, perr := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		n, nerr := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if perr != nil || nerr != nil {
			if i == 0 {
				continue
			}
			return nil, nil, fmt.Errorf("line %d: %q is not numeric", i+1, strings.Join(record, ","))
		}
		pressure = append(pressure, p)
		loading = append(loading, n)
	}
	if len(pressure) == 0 {
		return nil, nil, fmt.Errorf("no data points")
	}
	return pressure, loading, nil
}

func ReadPointsFile(path string) (pressure, loading []float64, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()
	return ReadPoints(file)
}
