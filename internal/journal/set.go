package journal

import "context"

// Set binds the two workbooks the bot writes to. A workbook's schema is
// fixed at creation, so structured melt rows and free-text fallback entries
// live in separate files.
type Set struct {
	melts    *Store
	messages *Store
}

func NewSet(melts, messages *Store) *Set {
	return &Set{melts: melts, messages: messages}
}

// EnsureReady prepares both workbooks, each with its own schema.
func (s *Set) EnsureReady(ctx context.Context) error {
	if err := s.melts.EnsureReady(ctx, SchemaMeltLog); err != nil {
		return err
	}
	return s.messages.EnsureReady(ctx, SchemaJournal)
}

func (s *Set) AppendMessageRow(ctx context.Context, row MessageRow) error {
	return s.messages.AppendMessageRow(ctx, row)
}

func (s *Set) AppendMeltRows(ctx context.Context, rows [][]any) (int, error) {
	return s.melts.AppendMeltRows(ctx, rows)
}

func (s *Set) Tail(ctx context.Context, limit int) ([][]string, error) {
	return s.melts.Tail(ctx, limit)
}

// Path is the melt-log workbook, the file offered for download.
func (s *Set) Path() string {
	return s.melts.Path()
}
