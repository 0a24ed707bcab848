package telemetry

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileRecorderAppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extract.log")
	r, err := NewFileRecorder(path)
	if err != nil {
		t.Fatal(err)
	}

	first := NewRecord("https://www.instagram.com/p/abc/", "video")
	first.Strategy = "graphql"
	first.Items = 1
	first.OK = true
	first.DurationMS = 420
	r.Record(first)

	second := NewRecord("https://www.instagram.com/p/def/", "")
	r.Record(second)

	if err := r.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("line is not valid JSON: %v", err)
		}
		records = append(records, rec)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Strategy != "graphql" || !records[0].OK {
		t.Fatalf("first record mangled: %+v", records[0])
	}
	if records[1].OK {
		t.Fatalf("second record should be a miss: %+v", records[1])
	}
}

func TestNewRecordStampsIdentity(t *testing.T) {
	rec := NewRecord("https://www.instagram.com/p/abc/", "photo")
	if rec.ID == "" {
		t.Fatal("missing id")
	}
	if rec.At.IsZero() || time.Since(rec.At) > time.Minute {
		t.Fatalf("bad timestamp %s", rec.At)
	}
	if rec.Tool != "photo" {
		t.Fatalf("tool not carried: %q", rec.Tool)
	}
}
