package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PlavkaRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewPlavkaRepository(db, zap.NewNop())
	return db, mock, repo
}

func fullRow() []string {
	cells := make([]string, len(plavkaColumns))
	cells[0] = "202511001"
	cells[1] = "11-001/25"
	cells[2] = "01.11.2025"
	cells[3] = "1"
	cells[19] = "1250,5"
	cells[34] = "row-uuid-1"
	return cells
}

func TestEnsureSchema(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS plavka_records`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertRow_Inserted(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO plavka_records`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.InsertRow(context.Background(), fullRow())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertRow_DuplicateSkipped(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO plavka_records`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.InsertRow(context.Background(), fullRow())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertRow_TemperatureConversion(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	cells := fullRow()
	expected := make([]driver.Value, len(plavkaColumns))
	for i := range plavkaColumns {
		if temperatureColumns[i] {
			if cells[i] == "" {
				expected[i] = nil
			} else {
				expected[i] = 1250.5
			}
			continue
		}
		expected[i] = cells[i]
	}

	mock.ExpectExec(`INSERT INTO plavka_records`).
		WithArgs(expected...).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.InsertRow(context.Background(), cells)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertRow_ShortRowPadded(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO plavka_records`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.InsertRow(context.Background(), []string{"202511001", "11-001/25"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCount(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM plavka_records`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(17))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 17, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
