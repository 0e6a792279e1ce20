package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/qepting91/reddit-spider/internal/domain"
)

// Extension of every output file.
const Extension = ".jsonl"

var ErrNotOpen = errors.New("sink is not open")

// Sink writes one NDJSON file per community. Each Append is a single write
// to the file, so a crash loses at most the record being written.
type Sink struct {
	Dir string

	f     *os.File
	enc   *json.Encoder
	count int
}

func NewSink(dir string) *Sink {
	return &Sink{Dir: dir}
}

// Path is the output file for a community.
func (s *Sink) Path(name string) string {
	return filepath.Join(s.Dir, name+Extension)
}

// Open creates or truncates the file for name, closing any file left open.
func (s *Sink) Open(name string) error {
	if err := s.Close(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.OpenFile(s.Path(name), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	s.f = f
	s.enc = json.NewEncoder(f)
	s.enc.SetEscapeHTML(false)
	s.count = 0
	return nil
}

// Append writes r followed by a newline.
func (s *Sink) Append(r domain.Record) error {
	if s.f == nil {
		return ErrNotOpen
	}
	if err := s.enc.Encode(r); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	s.count++
	return nil
}

// Count is the number of records appended since Open.
func (s *Sink) Count() int {
	return s.count
}

// Close releases the current file. Closing a closed sink is a no-op.
func (s *Sink) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f, s.enc = nil, nil
	return err
}
