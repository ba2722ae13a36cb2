// Package ledger aggregates successful order responses into a single JSON
// array file.
//
// Every Record call re-derives the whole file from the scratch files recorded
// so far, so the file always holds a complete, valid JSON array.
package ledger

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BatikanHyt/ordertrack/pkg/config"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	ErrInit  = errors.New("ledger initialization failed")
	ErrWrite = errors.New("ledger write failed")

	errStale = errors.New("ledger is missing recorded responses, scratch files kept")
)

type opError struct {
	kind error
	path string
	err  error
}

func (e *opError) Error() string   { return e.kind.Error() + " " + e.path + ": " + e.err.Error() }
func (e *opError) Unwrap() []error { return []error{e.kind, e.err} }

type Ledger struct {
	path        string
	keepScratch bool
	log         *zap.Logger

	mu      sync.Mutex
	scratch []string
	dirty   bool // last rewrite failed
}

// New opens the ledger at cfg.Path, creating it as an empty array when it
// does not exist. An existing file is left as is.
func New(cfg *config.LedgerConfig, log *zap.Logger) (*Ledger, error) {
	if log == nil {
		log = zap.NewNop()
	}
	l := &Ledger{
		path:        cfg.Path,
		keepScratch: cfg.KeepScratch,
		log:         log,
	}
	if err := l.initialize(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Ledger) initialize() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &opError{kind: ErrInit, path: l.path, err: err}
		}
	}

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		info, serr := os.Stat(l.path)
		if serr != nil {
			return &opError{kind: ErrInit, path: l.path, err: serr}
		}
		if !info.Mode().IsRegular() {
			return &opError{kind: ErrInit, path: l.path, err: errors.New("not a regular file")}
		}
		l.log.Debug("ledger already present", zap.String("path", l.path))
		return nil
	}
	if err != nil {
		return &opError{kind: ErrInit, path: l.path, err: err}
	}

	_, err = f.WriteString("[]")
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return &opError{kind: ErrInit, path: l.path, err: err}
	}
	l.log.Info("created ledger", zap.String("path", l.path))
	return nil
}

func (l *Ledger) Path() string { return l.path }

// Record adds a completed scratch file and rewrites the ledger from every
// scratch file recorded so far. A failed write keeps path recorded so a later
// Record can repair the file.
func (l *Ledger) Record(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.scratch = append(l.scratch, path)

	responses := make([][]byte, 0, len(l.scratch))
	for _, p := range l.scratch {
		content, err := os.ReadFile(p)
		if err != nil {
			l.log.Warn("skipping unreadable scratch file", zap.String("scratch", p), zap.Error(err))
			continue
		}
		content = bytes.TrimSpace(content)
		if len(content) == 0 {
			l.log.Debug("skipping empty scratch file", zap.String("scratch", p))
			continue
		}
		if !json.Valid(content) {
			l.log.Warn("skipping scratch file without valid JSON", zap.String("scratch", p))
			continue
		}
		responses = append(responses, content)
	}

	if len(responses) == 0 {
		l.log.Info("no valid responses to write", zap.String("path", l.path))
		return nil
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	buf.Write(bytes.Join(responses, []byte(",")))
	buf.WriteByte(']')

	if err := l.replace(buf.Bytes()); err != nil {
		l.dirty = true
		return &opError{kind: ErrWrite, path: l.path, err: err}
	}
	l.dirty = false
	l.log.Info("wrote responses to ledger", zap.Int("responses", len(responses)), zap.String("path", l.path))
	return nil
}

// replace swaps the ledger contents via a sibling temp file and rename.
func (l *Ledger) replace(data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(l.path), "."+filepath.Base(l.path)+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), l.path)
}

// Paths returns the recorded scratch files in record order.
func (l *Ledger) Paths() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.scratch...)
}

// Close removes the recorded scratch files unless they are kept. While the
// last rewrite has failed the scratch files hold the only copy of some
// responses, so they are left in place and an error is returned.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.dirty {
		return &opError{kind: ErrWrite, path: l.path, err: errStale}
	}
	if l.keepScratch {
		return nil
	}
	var err error
	seen := make(map[string]bool, len(l.scratch))
	for _, p := range l.scratch {
		if seen[p] {
			continue
		}
		seen[p] = true
		if rerr := os.Remove(p); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
			err = multierr.Append(err, rerr)
		}
	}
	return err
}
