package audit

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{
	"Timestamp", "User", "Action", "Resource Type", "Resource Name",
	"Success", "Details", "IP Address",
}

// ExportJSON renders the filtered entry set as a JSON array with
// ISO-8601 timestamps (time.Time marshals as RFC 3339).
func ExportJSON(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	return json.MarshalIndent(entries, "", "  ")
}

func exportRow(e Entry) []string {
	userName := "Unknown"
	if e.User != nil {
		userName = e.User.Name
	}

	resourceName := e.ResourceName
	if resourceName == "" {
		if v, ok := e.Details["fileName"].(string); ok {
			resourceName = v
		}
	}

	success := "Failed"
	if e.Success {
		success = "Success"
	}

	details := ""
	if e.Details != nil {
		if raw, err := json.Marshal(e.Details); err == nil {
			details = string(raw)
		}
	}

	ip := ""
	if v, ok := e.Details["ipAddress"].(string); ok {
		ip = v
	}

	return []string{
		e.Timestamp.UTC().Format(time.RFC3339),
		userName,
		string(e.Action),
		string(e.ResourceType),
		resourceName,
		success,
		details,
		ip,
	}
}

// ExportCSV writes the fixed 8-column report. encoding/csv quotes
// fields as needed and doubles embedded quotes.
func ExportCSV(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeaders); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := writer.Write(exportRow(e)); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportXLSX renders the same columns as a spreadsheet.
func ExportXLSX(entries []Entry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, e := range entries {
		row := exportRow(e)
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
