package accounts

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/legaflow/internal/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type bcryptOf string

func (b bcryptOf) Match(v driver.Value) bool {
	s, ok := v.(string)
	return ok && bcrypt.CompareHashAndPassword([]byte(s), []byte(b)) == nil
}

func TestDBStore_UpdateUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO inbox_users").
		WithArgs("1001", bcryptOf("pw123"), "pub", "sec").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s := NewDBStore(db, repomanager.NewPostgresRepositoryManager())
	s.cost = bcrypt.MinCost

	require.NoError(t, s.UpdateUser(context.Background(), "1001", "pw123", "pub", "sec"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBStore_UpdateUser_RollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO inbox_users").WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	s := NewDBStore(db, repomanager.NewPostgresRepositoryManager())
	s.cost = bcrypt.MinCost

	err = s.UpdateUser(context.Background(), "1001", "pw", "pub", "sec")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "update user 1001")
	assert.NoError(t, mock.ExpectationsWereMet())
}
