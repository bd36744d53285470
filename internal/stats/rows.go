package stats

// DataRow is one bar or slice of a report.
type DataRow struct {
	Label string `json:"label" yaml:"label"`
	Value int64  `json:"value" yaml:"value"`
}

// Report is a titled set of rows, ready to be charted or exported.
type Report struct {
	Name      string    `json:"name" yaml:"name"`
	ChartType string    `json:"chartType,omitempty" yaml:"chartType,omitempty"`
	Rows      []DataRow `json:"rows" yaml:"rows"`
}

const (
	otherLabel     = "Other"
	undefinedLabel = "undefined"
)

// limitRows keeps the first limit-1 rows and folds the remainder into a
// single "Other" row. A zero-valued remainder is dropped.
func limitRows(rows []DataRow, limit int) []DataRow {
	if limit <= 0 || len(rows) <= limit {
		return rows
	}
	out := make([]DataRow, 0, limit)
	out = append(out, rows[:limit-1]...)
	var other int64
	for _, r := range rows[limit-1:] {
		other += r.Value
	}
	if other != 0 {
		out = append(out, DataRow{Label: otherLabel, Value: other})
	}
	return out
}
