package caselog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// Case is one user-confirmed screening candidate. Records are append-only;
// nothing ever mutates or deletes a row short of a full Clear.
type Case struct {
	Time     string  // "2006-01-02 15:04"
	Symbol   string
	Price    float64 // price at time of save
	CaseType string  // free-form label, normally the originating signal
}

var header = []string{"timestamp", "symbol", "price", "case_type"}

// Log is a durable append-only case record backed by a single CSV file.
// Single-process, single-writer; the mutex only guards in-process callers.
type Log struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// New opens a case log rooted at dir. Empty dir falls back to the
// SCREENER_LOG_DIR environment variable, then "logs".
func New(dir string) *Log {
	if dir == "" {
		if v := os.Getenv("SCREENER_LOG_DIR"); v != "" {
			dir = v
		} else {
			dir = "logs"
		}
	}
	return &Log{dir: dir, now: time.Now}
}

func (l *Log) path() string {
	return filepath.Join(l.dir, "cases.csv")
}

// Append durably records one case. The row is written with a single write
// to an O_APPEND file and synced before return, so either the record is
// fully persisted and visible to ReadAll or the file is untouched.
func (l *Log) Append(symbol string, price float64, caseType string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.path()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if _, err := os.Stat(p); os.IsNotExist(err) {
		if err := w.Write(header); err != nil {
			return err
		}
	}
	row := []string{
		l.now().Format("2006-01-02 15:04"),
		symbol,
		strconv.FormatFloat(price, 'f', 2, 64),
		caseType,
	}
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(buf.Bytes()); err != nil {
		return err
	}
	return f.Sync()
}

// ReadAll returns every logged case, oldest first. A missing log file is an
// empty log, not an error.
func (l *Log) ReadAll() ([]Case, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path())
	if os.IsNotExist(err) {
		return []Case{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate a torn final row from a crashed writer
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read case log: %w", err)
	}

	cases := make([]Case, 0, len(rows))
	for i, row := range rows {
		if i == 0 || len(row) != len(header) {
			continue // header, or a torn row from a crashed writer
		}
		price, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			continue
		}
		cases = append(cases, Case{
			Time:     row[0],
			Symbol:   row[1],
			Price:    price,
			CaseType: row[3],
		})
	}
	return cases, nil
}

// Clear wipes the whole log.
func (l *Log) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	err := os.Remove(l.path())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
