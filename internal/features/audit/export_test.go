package audit

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func sampleEntry(t *testing.T) Entry {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, "2026-03-15T10:30:00Z")
	if err != nil {
		t.Fatal(err)
	}
	return Entry{
		AuditLog: models.AuditLog{
			UserID:       primitive.NewObjectID(),
			Action:       models.AuditActionUpload,
			ResourceType: models.ResourceTypeFile,
			ResourceID:   primitive.NewObjectID(),
			Details:      map[string]interface{}{"ipAddress": "10.0.0.7"},
			Timestamp:    ts,
			Success:      true,
		},
		User:         &models.UserRef{Name: "Dana Smith"},
		ResourceName: "budget.xlsx",
	}
}

func TestExportCSVShape(t *testing.T) {
	entries := []Entry{sampleEntry(t), sampleEntry(t)}

	data, err := ExportCSV(entries)
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("re-parse CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(records))
	}
	if len(records[0]) != 8 {
		t.Fatalf("columns = %d, want 8", len(records[0]))
	}
	if records[1][1] != "Dana Smith" {
		t.Errorf("user column = %q", records[1][1])
	}
	if records[1][5] != "Success" {
		t.Errorf("success column = %q", records[1][5])
	}
	if records[1][7] != "10.0.0.7" {
		t.Errorf("ip column = %q", records[1][7])
	}
}

// Values with embedded quotes and commas must survive a round trip
// through the CSV encoding.
func TestExportCSVQuoting(t *testing.T) {
	entry := sampleEntry(t)
	entry.ResourceName = `report "final", v2.csv`

	data, err := ExportCSV([]Entry{entry})
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("re-parse CSV: %v", err)
	}
	if got := records[1][4]; got != entry.ResourceName {
		t.Errorf("resource name = %q, want %q", got, entry.ResourceName)
	}
}

func TestExportRowFallbacks(t *testing.T) {
	entry := sampleEntry(t)
	entry.User = nil
	entry.ResourceName = ""
	entry.Details = map[string]interface{}{"fileName": "from-details.pdf"}
	entry.Success = false

	row := exportRow(entry)
	if row[1] != "Unknown" {
		t.Errorf("user fallback = %q, want Unknown", row[1])
	}
	if row[4] != "from-details.pdf" {
		t.Errorf("resource fallback = %q", row[4])
	}
	if row[5] != "Failed" {
		t.Errorf("success column = %q, want Failed", row[5])
	}
}

func TestExportJSON(t *testing.T) {
	data, err := ExportJSON([]Entry{sampleEntry(t)})
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("re-parse JSON: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("entries = %d, want 1", len(decoded))
	}
	if !strings.Contains(string(data), "2026-03-15T10:30:00Z") {
		t.Error("timestamp not in RFC 3339 form")
	}
}

func TestExportJSONEmpty(t *testing.T) {
	data, err := ExportJSON(nil)
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("empty export = %q, want []", string(data))
	}
}
