package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"talent-catalog/internal/search"
	"talent-catalog/internal/stats"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet   = "Summary"
	maxSheetName   = 31
	headerColor    = "4472C4"
	firstDataRow   = 3
	dateTimeLayout = "2006-01-02 15:04:05"
)

// Meta describes the run a workbook was produced from.
type Meta struct {
	RunID       string
	Scope       string
	DateFrom    search.Date
	DateTo      search.Date
	GeneratedAt time.Time
}

// WriteStatsWorkbook writes a Summary sheet followed by one sheet per report
// in the order given.
func WriteStatsWorkbook(w io.Writer, reports []stats.Report, meta Meta) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}

	names := newSheetNamer()
	names.reserve(summarySheet)
	sheets := make([]string, len(reports))
	for i, r := range reports {
		sheets[i] = names.next(r.Name)
		if _, err := f.NewSheet(sheets[i]); err != nil {
			return fmt.Errorf("create sheet %q: %w", sheets[i], err)
		}
	}

	styles, err := newStyles(f)
	if err != nil {
		return err
	}

	if err := writeSummary(f, styles, reports, sheets, meta); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	for i, r := range reports {
		if err := writeReport(f, styles, sheets[i], r); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", sheets[i], err)
		}
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

// SaveStatsWorkbook writes the workbook to path, adding .xlsx when missing.
func SaveStatsWorkbook(path string, reports []stats.Report, meta Meta) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := WriteStatsWorkbook(out, reports, meta); err != nil {
		_ = out.Close()
		return "", err
	}
	return path, out.Close()
}

type styles struct {
	header int
	label  int
}

func newStyles(f *excelize.File) (styles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerColor}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return styles{}, err
	}
	label, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return styles{}, err
	}
	return styles{header: header, label: label}, nil
}

func writeSummary(f *excelize.File, st styles, reports []stats.Report, sheets []string, meta Meta) error {
	sh := summarySheet
	if err := f.SetColWidth(sh, "A", "A", 45); err != nil {
		return err
	}
	if err := f.SetColWidth(sh, "B", "D", 32); err != nil {
		return err
	}

	if err := f.SetCellValue(sh, "A1", "Candidate Statistics"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sh, "A1", "D1", st.header); err != nil {
		return err
	}

	info := [][2]string{
		{"Run:", meta.RunID},
		{"Scope:", meta.Scope},
		{"From:", meta.DateFrom.String()},
		{"To:", meta.DateTo.String()},
		{"Generated:", meta.GeneratedAt.UTC().Format(dateTimeLayout)},
	}
	row := 3
	for _, kv := range info {
		a, b := cell("A", row), cell("B", row)
		if err := f.SetCellValue(sh, a, kv[0]); err != nil {
			return err
		}
		if err := f.SetCellStyle(sh, a, a, st.label); err != nil {
			return err
		}
		if err := f.SetCellValue(sh, b, kv[1]); err != nil {
			return err
		}
		row++
	}

	row++
	headers := []string{"Report", "Sheet", "Rows", "Total"}
	for i, h := range headers {
		c := cell(string(rune('A'+i)), row)
		if err := f.SetCellValue(sh, c, h); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sh, cell("A", row), cell("D", row), st.header); err != nil {
		return err
	}
	row++

	for i, r := range reports {
		values := []any{r.Name, sheets[i], len(r.Rows), total(r.Rows)}
		for j, v := range values {
			if err := f.SetCellValue(sh, cell(string(rune('A'+j)), row), v); err != nil {
				return err
			}
		}
		link := "'" + strings.ReplaceAll(sheets[i], "'", "''") + "'!A1"
		if err := f.SetCellHyperLink(sh, cell("B", row), link, "Location"); err != nil {
			return err
		}
		row++
	}
	return nil
}

func writeReport(f *excelize.File, st styles, sh string, r stats.Report) error {
	if err := f.SetColWidth(sh, "A", "A", 40); err != nil {
		return err
	}
	if err := f.SetColWidth(sh, "B", "B", 14); err != nil {
		return err
	}
	if err := f.SetCellValue(sh, "A1", r.Name); err != nil {
		return err
	}
	if err := f.SetCellStyle(sh, "A1", "A1", st.label); err != nil {
		return err
	}
	if err := f.SetSheetRow(sh, "A2", &[]any{"Label", "Count"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(sh, "A2", "B2", st.header); err != nil {
		return err
	}

	for i, dr := range r.Rows {
		row := firstDataRow + i
		if err := f.SetSheetRow(sh, cell("A", row), &[]any{dr.Label, dr.Value}); err != nil {
			return err
		}
	}

	if err := f.SetPanes(sh, &excelize.Panes{
		Freeze:      true,
		YSplit:      2,
		TopLeftCell: "A3",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	if r.ChartType != "bar" || len(r.Rows) == 0 {
		return nil
	}
	last := firstDataRow + len(r.Rows) - 1
	ref := "'" + strings.ReplaceAll(sh, "'", "''") + "'!"
	return f.AddChart(sh, "D2", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       ref + "$B$2",
			Categories: fmt.Sprintf("%s$A$%d:$A$%d", ref, firstDataRow, last),
			Values:     fmt.Sprintf("%s$B$%d:$B$%d", ref, firstDataRow, last),
		}},
		Title:  []excelize.RichTextRun{{Text: r.Name}},
		Legend: excelize.ChartLegend{Position: "none"},
	})
}

func cell(col string, row int) string {
	return col + strconv.Itoa(row)
}

func total(rows []stats.DataRow) int64 {
	var n int64
	for _, r := range rows {
		n += r.Value
	}
	return n
}
