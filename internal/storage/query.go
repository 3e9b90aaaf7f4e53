package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// Query evaluates a JSONPath expression against the exported form of a
// run, e.g. "$.run.state.x" or "$.run.metrics.rmse".
func Query(expr string, meta RunMetadata, table Table) (any, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("query: empty jsonpath expression")
	}

	raw, err := json.Marshal(ExportData{Run: meta, Header: table.Header, Rows: table.Rows})
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	val, err := jsonpath.Get(expr, doc)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", expr, err)
	}
	return val, nil
}
