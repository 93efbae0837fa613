package leads

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ExportCSV writes the given view as a CSV report, one row per lead in
// view order. The column set mirrors the spreadsheet the sales team has
// been downloading all along.
func ExportCSV(w io.Writer, view []Lead) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"Customer ID", "Full Name", "Job", "Age", "Score", "Status",
		"Last Contacted", "Phone", "Notes",
	}); err != nil {
		return err
	}

	for _, l := range view {
		last := "-"
		if !l.LastContacted.IsZero() {
			last = l.LastContacted.Format("2006-01-02")
		}
		rec := []string{
			l.ID,
			l.Name,
			orDash(l.Job),
			fmt.Sprintf("%d", l.Age),
			fmt.Sprintf("%d%%", int(l.Score*100+0.5)),
			strings.ToUpper(string(l.Status)),
			last,
			orDash(l.Phone),
			orDash(l.Notes),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
