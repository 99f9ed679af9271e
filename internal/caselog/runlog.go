package caselog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"earnings-screener/internal/types"
)

// runFilepath is the daily screening-run report file.
func (l *Log) runFilepath(t time.Time) string {
	return filepath.Join(l.dir, "runs", t.Format("2006-01-02")+".json")
}

// AppendRun records a completed screening run, one JSON line per run, in a
// per-day file. Reports are for later inspection only; nothing reads them
// back at runtime.
func (l *Log) AppendRun(run types.ScreeningRun, failures []types.SymbolFailure) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.runFilepath(l.now())
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	line := struct {
		types.ScreeningRun
		Failures []types.SymbolFailure `json:"failures,omitempty"`
	}{run, failures}
	b, err := json.Marshal(line)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips run reports older than retentionDays. Zero or negative
// retention disables compression.
func (l *Log) CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	root := filepath.Join(l.dir, "runs")
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".json" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil || !info.ModTime().Before(cutoff) {
			return nil
		}

		gz := p + ".gz"
		if _, e2 := os.Stat(gz); e2 == nil {
			_ = os.Remove(p)
			return nil
		}

		in, e3 := os.Open(p)
		if e3 != nil {
			return nil
		}
		defer in.Close()

		out, e4 := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if e4 != nil {
			return nil
		}
		gw := gzip.NewWriter(out)
		if _, e5 := io.Copy(gw, in); e5 == nil {
			_ = gw.Close()
			_ = out.Close()
			_ = os.Remove(p)
		} else {
			_ = gw.Close()
			_ = out.Close()
		}
		return nil
	})
}
