package leads

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"
)

func TestExportCSV(t *testing.T) {
	view := []Lead{
		{ID: "7", Name: "Ana", Job: "teacher", Age: 41, Score: 0.87, Status: StatusSuccess,
			LastContacted: time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC), Phone: "0812", Notes: "deal"},
		{ID: "8", Name: "Budi", Score: 0.5, Status: StatusNew},
	}

	var buf bytes.Buffer
	if err := ExportCSV(&buf, view); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	recs, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("re-read failed: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(recs))
	}
	if recs[1][4] != "87%" {
		t.Fatalf("expected rounded percent score, got %q", recs[1][4])
	}
	if recs[1][5] != "SUCCESS" {
		t.Fatalf("expected uppercased status, got %q", recs[1][5])
	}
	if recs[1][6] != "2025-03-14" {
		t.Fatalf("expected date-formatted last contact, got %q", recs[1][6])
	}
	if recs[2][6] != "-" || recs[2][8] != "-" {
		t.Fatalf("expected dashes for missing values, got %v", recs[2])
	}
	if !strings.Contains(recs[0][0], "Customer ID") {
		t.Fatalf("unexpected header: %v", recs[0])
	}
}
