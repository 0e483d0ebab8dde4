package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SchemaVersion is the current history file schema version.
const SchemaVersion = 1

// maxLineSize bounds a single JSONL record.
const maxLineSize = 1024 * 1024

// Persistence stores history records.
type Persistence interface {
	// Load reads every stored record, oldest first.
	Load() ([]Record, error)

	// Append adds one record.
	Append(r Record) error

	// AppendBatch adds records in order with a single sync.
	AppendBatch(rs []Record) error

	// Rewrite replaces everything stored with rs.
	Rewrite(rs []Record) error

	// Clear drops every record.
	Clear() error

	// Close releases the underlying file.
	Close() error
}

// ErrPersistenceClosed is returned by operations on a closed persistence.
var ErrPersistenceClosed = errors.New("persistence is closed")

// schemaHeader is the first line of a history file.
type schemaHeader struct {
	SchemaVersion int   `json:"toastui_schema_version"`
	CreatedAt     int64 `json:"created_at"`
}

// JSONLPersistence keeps records one per line after a schema header.
// Appends go straight to the open file; Rewrite and Clear build a
// replacement beside it and rename it into place.
type JSONLPersistence struct {
	mu   sync.Mutex
	path string
	file *os.File // nil once closed
}

// NewJSONLPersistence opens path for appending, creating it and its parent
// directories when missing.
func NewJSONLPersistence(path string) (*JSONLPersistence, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}

	file, err := openAppend(path)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.Size() == 0 {
		if err := writeLines(file, nil); err != nil {
			file.Close()
			return nil, err
		}
	}

	return &JSONLPersistence{path: path, file: file}, nil
}

func openAppend(path string) (*os.File, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	return file, nil
}

// Path returns the file backing p.
func (p *JSONLPersistence) Path() string {
	return p.path
}

// Load reads all records. Malformed lines and lines without an ID are skipped.
func (p *JSONLPersistence) Load() ([]Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.file == nil {
		return nil, ErrPersistenceClosed
	}

	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", p.path, err)
	}
	defer f.Close()

	return readRecords(f, true)
}

// readRecords decodes a history stream. When strict is set a header newer
// than SchemaVersion is an error.
func readRecords(r io.Reader, strict bool) ([]Record, error) {
	var records []Record

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var header schemaHeader
		if json.Unmarshal(line, &header) == nil && header.SchemaVersion > 0 {
			if strict && header.SchemaVersion > SchemaVersion {
				return nil, fmt.Errorf("unsupported schema version %d (max: %d)",
					header.SchemaVersion, SchemaVersion)
			}
			continue
		}

		var rec Record
		if json.Unmarshal(line, &rec) != nil || rec.ID == "" {
			continue
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("error reading history: %w", err)
	}
	return records, nil
}

// writeLines writes a fresh header followed by rs.
func writeLines(w io.Writer, rs []Record) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(schemaHeader{SchemaVersion: SchemaVersion, CreatedAt: time.Now().Unix()}); err != nil {
		return err
	}
	return encodeRecords(enc, rs)
}

func encodeRecords(enc *json.Encoder, rs []Record) error {
	for _, r := range rs {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode record %s: %w", r.ID, err)
		}
	}
	return nil
}

// Append adds a record to storage.
func (p *JSONLPersistence) Append(r Record) error {
	return p.AppendBatch([]Record{r})
}

// AppendBatch adds records in order and syncs once.
func (p *JSONLPersistence) AppendBatch(rs []Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.file == nil {
		return ErrPersistenceClosed
	}
	if err := encodeRecords(json.NewEncoder(p.file), rs); err != nil {
		return err
	}
	return p.file.Sync()
}

// Rewrite replaces the stored records with rs.
func (p *JSONLPersistence) Rewrite(rs []Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.file == nil {
		return ErrPersistenceClosed
	}
	return p.replace(rs)
}

// Clear removes all stored records, leaving only the header.
func (p *JSONLPersistence) Clear() error {
	return p.Rewrite(nil)
}

// replace writes rs to a temporary file, renames it over the history file
// and reopens it for appending. The caller holds p.mu.
func (p *JSONLPersistence) replace(rs []Record) error {
	tmp, err := os.CreateTemp(filepath.Dir(p.path), filepath.Base(p.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	err = writeLines(tmp, rs)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmpPath, 0600)
	}
	if err == nil {
		err = os.Rename(tmpPath, p.path)
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rewrite %s: %w", p.path, err)
	}

	file, err := openAppend(p.path)
	if err != nil {
		return err
	}
	p.file.Close()
	p.file = file
	return nil
}

// Close releases the file handle. Closing twice is a no-op.
func (p *JSONLPersistence) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.file == nil {
		return nil
	}
	err := p.file.Close()
	p.file = nil
	return err
}

// RecoverFromCorruption keeps the unreadable file as
// <path>.corrupted.<timestamp> and writes a new one holding every record
// that still decodes.
func RecoverFromCorruption(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	valid, err := readRecords(f, false)
	f.Close()
	if err != nil {
		return err
	}

	backupPath := path + ".corrupted." + time.Now().Format("20060102-150405")
	if err := os.Rename(path, backupPath); err != nil {
		return fmt.Errorf("failed to backup corrupted file: %w", err)
	}

	p, err := NewJSONLPersistence(path)
	if err != nil {
		return err
	}
	defer p.Close()

	return p.AppendBatch(valid)
}
