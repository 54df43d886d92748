// Package history maintains an append-only log of the operations this
// tool has submitted, one JSON document per line, so signatures can be
// found again after the console scrolls away.
package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Record represents one submitted operation.
type Record struct {
	TraceID     string    `json:"trace_id"`
	Op          string    `json:"op"`
	Mint        string    `json:"mint,omitempty"`
	Signature   string    `json:"signature"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Log manages the append-only history file.
type Log struct {
	path string
	file *os.File
	mu   sync.Mutex
}

// Open opens the history file for appending, creating the folder and
// file as needed.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating history folder: %w", err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}

	return &Log{
		path: path,
		file: file,
	}, nil
}

// Close cleanly closes the history file underneath.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Close()
}

// Add appends a new record to the log.
func (l *Log) Add(r Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now().UTC()
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	if _, err := l.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append record: %w", err)
	}

	return nil
}

// Records reads the full set of records back from disk, oldest first.
// Lines that don't parse are skipped rather than failing the read, a
// torn final write must not make the history unreadable.
func (l *Log) Records() ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer file.Close()

	var records []Record

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var r Record
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			continue
		}
		records = append(records, r)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan history file: %w", err)
	}

	return records, nil
}
