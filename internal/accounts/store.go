package accounts

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/legaflow/internal/dbx"
	"github.com/dmitrijs2005/legaflow/internal/models"
	"github.com/dmitrijs2005/legaflow/internal/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// DBStore records provisioned credentials in the inbox database. Only a
// bcrypt hash of the password is stored.
type DBStore struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cost        int
}

func NewDBStore(db *sql.DB, m repomanager.RepositoryManager) *DBStore {
	return &DBStore{db: db, repomanager: m, cost: bcrypt.DefaultCost}
}

func (s *DBStore) UpdateUser(ctx context.Context, userID, password, pubkey, seckey string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user := &models.InboxUser{
			UserID:       userID,
			PasswordHash: string(hash),
			PubKey:       pubkey,
			SecKey:       seckey,
		}
		if err := s.repomanager.Users(tx).Upsert(ctx, user); err != nil {
			return fmt.Errorf("update user %s: %w", userID, err)
		}
		return nil
	})
}
