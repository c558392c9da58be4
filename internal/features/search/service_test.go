package search

import (
	"testing"
)

func TestBucketFor(t *testing.T) {
	tests := []struct {
		mimeType string
		want     string
	}{
		{"image/png", "Images"},
		{"image/jpeg", "Images"},
		{"video/mp4", "Videos"},
		{"application/pdf", "PDFs"},
		{"text/plain", "Documents"},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "Documents"},
		{"application/vnd.ms-excel", "Documents"},
		{"application/zip", "Other"},
		{"", "Other"},
	}

	for _, tt := range tests {
		if got := bucketFor(tt.mimeType); got != tt.want {
			t.Errorf("bucketFor(%q) = %q, want %q", tt.mimeType, got, tt.want)
		}
	}
}

func TestBucketTypesAggregates(t *testing.T) {
	types := []TypeCount{
		{FileType: "image/png", Count: 3, TotalSize: 300},
		{FileType: "image/jpeg", Count: 2, TotalSize: 200},
		{FileType: "application/pdf", Count: 1, TotalSize: 50},
	}

	buckets := bucketTypes(types)
	if len(buckets) != 2 {
		t.Fatalf("buckets = %d, want 2", len(buckets))
	}
	if buckets[0].FileType != "Images" || buckets[0].Count != 5 || buckets[0].TotalSize != 500 {
		t.Errorf("images bucket = %+v", buckets[0])
	}
	if buckets[1].FileType != "PDFs" || buckets[1].Count != 1 {
		t.Errorf("pdfs bucket = %+v", buckets[1])
	}
}

func TestBucketTypesEmpty(t *testing.T) {
	if got := bucketTypes(nil); len(got) != 0 {
		t.Errorf("bucketTypes(nil) = %v, want empty", got)
	}
}
