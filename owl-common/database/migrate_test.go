package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScript = `
-- patients baseline
CREATE TABLE IF NOT EXISTS patients (id uuid PRIMARY KEY);

-- index
CREATE INDEX IF NOT EXISTS idx_a ON patients (id);
;
`

func TestSplitStatements(t *testing.T) {
	stmts := SplitStatements(testScript)

	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS patients (id uuid PRIMARY KEY)", stmts[0])
	assert.Equal(t, "CREATE INDEX IF NOT EXISTS idx_a ON patients (id)", stmts[1])
}

func TestApplyScript_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE INDEX`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	n, err := ApplyScript(context.Background(), db, testScript)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyScript_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE INDEX`).WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()

	n, err := ApplyScript(context.Background(), db, testScript)

	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, err.Error(), "statement 2")
	require.NoError(t, mock.ExpectationsWereMet())
}
