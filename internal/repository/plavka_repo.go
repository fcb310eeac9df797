// Package repository archives melt-log rows into PostgreSQL. It is used by
// the journal-migrate tool only; the bot itself never touches the database.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// plavkaColumns mirrors the melt-log sheet column for column. The trailing
// uuid becomes the primary key so repeated migrations are idempotent.
var plavkaColumns = []string{
	"id_plavka",
	"account_number",
	"melt_date",
	"melt_number",
	"cluster_number",
	"shift_supervisor",
	"participant_1",
	"participant_2",
	"participant_3",
	"participant_4",
	"casting_name",
	"experiment_type",
	"sector_a_molds",
	"sector_b_molds",
	"sector_c_molds",
	"sector_d_molds",
	"preheat_time_a",
	"transfer_time_a",
	"pour_time_a",
	"pour_temperature_a",
	"preheat_time_b",
	"transfer_time_b",
	"pour_time_b",
	"pour_temperature_b",
	"preheat_time_c",
	"transfer_time_c",
	"pour_time_c",
	"pour_temperature_c",
	"preheat_time_d",
	"transfer_time_d",
	"pour_time_d",
	"pour_temperature_d",
	"comment",
	"pour_time",
	"id",
}

// temperatureColumns hold floats; empty cells become NULL.
var temperatureColumns = map[int]bool{19: true, 23: true, 27: true, 31: true}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS plavka_records (
	id TEXT PRIMARY KEY,
	id_plavka TEXT NOT NULL,
	account_number TEXT,
	melt_date TEXT,
	melt_number TEXT,
	cluster_number TEXT,
	shift_supervisor TEXT,
	participant_1 TEXT,
	participant_2 TEXT,
	participant_3 TEXT,
	participant_4 TEXT,
	casting_name TEXT,
	experiment_type TEXT,
	sector_a_molds TEXT,
	sector_b_molds TEXT,
	sector_c_molds TEXT,
	sector_d_molds TEXT,
	preheat_time_a TEXT,
	transfer_time_a TEXT,
	pour_time_a TEXT,
	pour_temperature_a DOUBLE PRECISION,
	preheat_time_b TEXT,
	transfer_time_b TEXT,
	pour_time_b TEXT,
	pour_temperature_b DOUBLE PRECISION,
	preheat_time_c TEXT,
	transfer_time_c TEXT,
	pour_time_c TEXT,
	pour_temperature_c DOUBLE PRECISION,
	preheat_time_d TEXT,
	transfer_time_d TEXT,
	pour_time_d TEXT,
	pour_temperature_d DOUBLE PRECISION,
	comment TEXT,
	pour_time TEXT
)`

// PlavkaRepository writes melt rows to the plavka_records table.
type PlavkaRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPlavkaRepository(db *sql.DB, logger *zap.Logger) *PlavkaRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlavkaRepository{db: db, logger: logger}
}

// EnsureSchema creates the archive table if it does not exist.
func (r *PlavkaRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create plavka_records table: %w", err)
	}
	return nil
}

// InsertRow archives one sheet row. Rows narrower than the sheet schema are
// padded with empty cells. The returned bool reports whether a row was
// actually inserted; a duplicate row id is skipped silently.
func (r *PlavkaRepository) InsertRow(ctx context.Context, cells []string) (bool, error) {
	args := make([]any, len(plavkaColumns))
	for i := range plavkaColumns {
		var cell string
		if i < len(cells) {
			cell = strings.TrimSpace(cells[i])
		}
		if temperatureColumns[i] {
			if cell == "" {
				args[i] = nil
				continue
			}
			value, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", "."), 64)
			if err != nil {
				r.logger.Warn("unparseable temperature cell, storing NULL",
					zap.String("column", plavkaColumns[i]),
					zap.String("value", cell),
				)
				args[i] = nil
				continue
			}
			args[i] = value
			continue
		}
		args[i] = cell
	}

	result, err := r.db.ExecContext(ctx, insertSQL(), args...)
	if err != nil {
		return false, fmt.Errorf("insert plavka record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert plavka record: %w", err)
	}
	return affected > 0, nil
}

// Count returns the number of archived rows.
func (r *PlavkaRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM plavka_records").Scan(&count); err != nil {
		return 0, fmt.Errorf("count plavka records: %w", err)
	}
	return count, nil
}

func insertSQL() string {
	placeholders := make([]string, len(plavkaColumns))
	for i := range plavkaColumns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf(
		"INSERT INTO plavka_records (%s) VALUES (%s) ON CONFLICT (id) DO NOTHING",
		strings.Join(plavkaColumns, ", "),
		strings.Join(placeholders, ", "),
	)
}
