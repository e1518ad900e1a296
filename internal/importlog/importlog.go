// Package importlog keeps an append-only CSV history of import runs.
package importlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one row in the import log.
type Entry struct {
	Timestamp time.Time
	File      string
	Imported  int
	Dropped   int
	Errors    int
}

// Header is the CSV header for import-log.csv.
const Header = "timestamp,file,imported,dropped,errors"

const (
	numFields   = 5
	logDir      = "logs"
	logFile     = "import-log.csv"
	colTime     = 0
	colFile     = 1
	colImported = 2
	colDropped  = 3
	colErrors   = 4
)

// Path returns the log location under dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, logDir, logFile)
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colFile] = e.File
	row[colImported] = strconv.Itoa(e.Imported)
	row[colDropped] = strconv.Itoa(e.Dropped)
	row[colErrors] = strconv.Itoa(e.Errors)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}

	counts := make([]int, 0, 3)
	for _, col := range []int{colImported, colDropped, colErrors} {
		n, err := strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[col], err)
		}
		counts = append(counts, n)
	}

	return Entry{
		Timestamp: ts,
		File:      record[colFile],
		Imported:  counts[0],
		Dropped:   counts[1],
		Errors:    counts[2],
	}, nil
}

// Append writes entries to <dataDir>/logs/import-log.csv, creating the file and header if needed.
func Append(dataDir string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Join(dataDir, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := Path(dataDir)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <dataDir>/logs/import-log.csv.
// Returns an empty slice if the file does not exist.
func Read(dataDir string) ([]Entry, error) {
	f, err := os.Open(Path(dataDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
