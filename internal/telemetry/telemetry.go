// Package telemetry records extraction outcomes as append-only JSON lines so
// strategy reliability can be reviewed after the fact. Records never contain
// credentials or response bodies, only the request URL and what happened.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record is one extraction attempt, success or not.
type Record struct {
	ID         string    `json:"id"`
	At         time.Time `json:"at"`
	URL        string    `json:"url"`
	Tool       string    `json:"tool,omitempty"`
	Strategy   string    `json:"strategy,omitempty"`
	Items      int       `json:"items"`
	OK         bool      `json:"ok"`
	DurationMS int64     `json:"duration_ms"`
}

// Recorder accepts extraction records. Implementations must be safe for
// concurrent use.
type Recorder interface {
	Record(rec Record)
	Close() error
}

// NewRecord stamps a record with an id and timestamp.
func NewRecord(url, tool string) Record {
	return Record{
		ID:  uuid.NewString(),
		At:  time.Now().UTC(),
		URL: url, Tool: tool,
	}
}

// FileRecorder appends JSON lines to a log file.
type FileRecorder struct {
	mu sync.Mutex
	f  *os.File
}

func NewFileRecorder(path string) (*FileRecorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening telemetry log: %w", err)
	}
	return &FileRecorder{f: f}, nil
}

func (r *FileRecorder) Record(rec Record) {
	line, err := json.Marshal(rec)
	if err != nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.f.Write(append(line, '\n'))
}

func (r *FileRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.f.Close()
}

// Nop discards all records. Used when no telemetry path is configured.
type Nop struct{}

func (Nop) Record(Record) {}
func (Nop) Close() error  { return nil }
