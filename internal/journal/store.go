// Package journal is a lock-guarded, append-only spreadsheet store. One
// workbook holds either the melt log or the free-text message journal; the
// header row written at creation time fixes the schema for the life of the
// file. Every operation takes an advisory sidecar lock, re-validates the
// header under that lock and releases the lock on all paths, so concurrent
// writers from this or another process serialize instead of corrupting the
// file.
package journal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const lockRetryDelay = 200 * time.Millisecond

// Store provides append and tail-read access to one journal workbook.
type Store struct {
	path        string
	lockTimeout time.Duration
	logger      *zap.Logger
}

// MessageRow is one free-text journal entry. The timestamp cell is assigned
// at append time.
type MessageRow struct {
	UserID    int64
	Username  string
	ChatID    int64
	MessageID int
	Text      string
}

func New(path string, lockTimeout time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if lockTimeout <= 0 {
		lockTimeout = 15 * time.Second
	}
	return &Store{path: path, lockTimeout: lockTimeout, logger: logger}
}

func (s *Store) Path() string { return s.path }

// LockPath is the sidecar lock file. It carries no application data.
func (s *Store) LockPath() string { return s.path + ".lock" }

// EnsureReady drives the workbook to a usable state: a missing file is
// created with the target schema's headers, a headerless file gets its
// headers written in place, and an existing header row is validated against
// the schema it declares. No data rows are touched.
func (s *Store) EnsureReady(ctx context.Context, target Schema) error {
	return s.withLock(ctx, func() error {
		return s.prepare(target, false)
	})
}

// AppendMessageRow appends one free-text journal entry.
func (s *Store) AppendMessageRow(ctx context.Context, row MessageRow) error {
	return s.withLock(ctx, func() error {
		if err := s.prepare(SchemaJournal, true); err != nil {
			return err
		}
		f, sheet, rows, err := s.open()
		if err != nil {
			return err
		}
		defer f.Close()

		timestamp := time.Now().Format("2006-01-02T15:04:05-07:00")
		cells := []any{timestamp, row.UserID, row.Username, row.ChatID, row.MessageID, row.Text}
		anchor, _ := excelize.CoordinatesToCellName(1, len(rows)+1)
		if err := f.SetSheetRow(sheet, anchor, &cells); err != nil {
			return fmt.Errorf("append journal row: %w", err)
		}
		if err := f.Save(); err != nil {
			return fmt.Errorf("save journal workbook: %w", err)
		}
		s.logger.Info("journal entry appended",
			zap.Int64("user_id", row.UserID),
			zap.Int64("chat_id", row.ChatID),
			zap.Int("message_id", row.MessageID),
		)
		return nil
	})
}

// AppendMeltRows appends melt-log rows in order and returns how many were
// written. The schema is re-checked under the lock, so either every row of
// the call lands after one save or none do.
func (s *Store) AppendMeltRows(ctx context.Context, meltRows [][]any) (int, error) {
	written := 0
	err := s.withLock(ctx, func() error {
		if err := s.prepare(SchemaMeltLog, true); err != nil {
			return err
		}
		f, sheet, rows, err := s.open()
		if err != nil {
			return err
		}
		defer f.Close()

		next := len(rows) + 1
		for i, row := range meltRows {
			anchor, _ := excelize.CoordinatesToCellName(1, next+i)
			cells := row
			if err := f.SetSheetRow(sheet, anchor, &cells); err != nil {
				return fmt.Errorf("append melt row %d: %w", i+1, err)
			}
		}
		if err := f.Save(); err != nil {
			return fmt.Errorf("save journal workbook: %w", err)
		}
		written = len(meltRows)
		s.logger.Info("melt rows appended", zap.Int("count", written))
		return nil
	})
	return written, err
}

// Tail returns at most limit most-recent data rows in oldest-to-newest
// order, each padded to the schema width. A non-positive limit returns nil
// without touching the file. Readers take the same exclusive lock as
// writers.
func (s *Store) Tail(ctx context.Context, limit int) ([][]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	var out [][]string
	err := s.withLock(ctx, func() error {
		if err := s.prepare(SchemaMeltLog, false); err != nil {
			return err
		}
		f, _, rows, err := s.open()
		if err != nil {
			return err
		}
		defer f.Close()

		if len(rows) <= 1 {
			return nil
		}
		width := len(detectSchema(rows[0]).Headers())
		data := rows[1:]
		if len(data) > limit {
			data = data[len(data)-limit:]
		}
		out = padRows(data, width)
		return nil
	})
	return out, err
}

// ReadAll returns every data row of a melt-log workbook, oldest first. Used
// by the archive importer.
func (s *Store) ReadAll(ctx context.Context) ([][]string, error) {
	var out [][]string
	err := s.withLock(ctx, func() error {
		if err := s.prepare(SchemaMeltLog, true); err != nil {
			return err
		}
		f, _, rows, err := s.open()
		if err != nil {
			return err
		}
		defer f.Close()

		if len(rows) <= 1 {
			return nil
		}
		out = padRows(rows[1:], len(PlavkaHeaders))
		return nil
	})
	return out, err
}

// withLock runs fn while holding the sidecar lock, waiting up to the
// configured timeout. A timed-out acquisition surfaces as ErrBusy, never as
// a schema error.
func (s *Store) withLock(ctx context.Context, fn func() error) error {
	fl := flock.New(s.LockPath())
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	locked, err := fl.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", ErrBusy, filepath.Base(s.path))
		}
		return fmt.Errorf("acquire journal lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrBusy, filepath.Base(s.path))
	}
	defer func() {
		if err := fl.Unlock(); err != nil {
			s.logger.Warn("failed to release journal lock", zap.Error(err))
		}
	}()

	return fn()
}

// prepare drives the file to "present with a valid header row". With
// enforce set, the existing file must hold exactly the target schema; a
// melt-log file rejects journal appends and vice versa. Without enforce the
// header is validated against whatever schema the file itself declares.
func (s *Store) prepare(target Schema, enforce bool) error {
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return s.create(target)
	}

	f, sheet, rows, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	if headerless(rows) {
		s.logger.Info("journal file found without headers, writing them",
			zap.String("path", s.path),
			zap.String("mode", target.String()),
		)
		headerRow := toAnySlice(target.Headers())
		if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
			return fmt.Errorf("write header row: %w", err)
		}
		if err := f.Save(); err != nil {
			return fmt.Errorf("save journal workbook: %w", err)
		}
		return nil
	}

	want := detectSchema(rows[0])
	if enforce && want != target {
		return fmt.Errorf("%w: файл содержит схему %q, операция требует %q",
			ErrSchema, want, target)
	}
	if enforce {
		want = target
	}
	return compareHeaders(rows[0], want.Headers())
}

// create writes a brand-new workbook holding only the header row.
func (s *Store) create(target Schema) error {
	s.logger.Info("journal file not found, creating a new workbook",
		zap.String("path", s.path),
		zap.String("mode", target.String()),
	)

	f := excelize.NewFile()
	defer f.Close()

	sheetName := target.SheetName()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	_ = f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerRow := toAnySlice(target.Headers())
	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("save journal workbook: %w", err)
	}
	return nil
}

// open loads the workbook and returns its active sheet plus all rows. An
// unreadable file is a schema error: the caller cannot fix it by retrying.
func (s *Store) open() (*excelize.File, string, [][]string, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, "", nil, fmt.Errorf("%w: не удалось открыть %s: %v",
			ErrSchema, filepath.Base(s.path), err)
	}
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		f.Close()
		return nil, "", nil, fmt.Errorf("read %s: %w", filepath.Base(s.path), err)
	}
	return f, sheet, rows, nil
}

func headerless(rows [][]string) bool {
	if len(rows) == 0 {
		return true
	}
	if len(rows) > 1 {
		return false
	}
	for _, cell := range rows[0] {
		if cell != "" {
			return false
		}
	}
	return true
}

func compareHeaders(actual, expected []string) error {
	if len(actual) < len(expected) {
		return fmt.Errorf("%w: ожидалось %d столбцов, найдено %d",
			ErrSchema, len(expected), len(actual))
	}
	for i, want := range expected {
		if actual[i] != want {
			return fmt.Errorf("%w: столбец %d: ожидалось %q, найдено %q",
				ErrSchema, i+1, want, actual[i])
		}
	}
	return nil
}

func padRows(rows [][]string, width int) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		padded := make([]string, width)
		copy(padded, row)
		out = append(out, padded)
	}
	return out
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
