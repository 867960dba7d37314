package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/legaflow/internal/common"
	"github.com/dmitrijs2005/legaflow/internal/dbx"
	"github.com/dmitrijs2005/legaflow/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert stores the credentials of user, replacing any previous set.
func (r *PostgresRepository) Upsert(ctx context.Context, user *models.InboxUser) error {
	query :=
		`INSERT INTO inbox_users (user_id, password_hash, pubkey, seckey)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
		 SET password_hash = EXCLUDED.password_hash,
		     pubkey = EXCLUDED.pubkey,
		     seckey = EXCLUDED.seckey,
		     updated_at = now()
		 `

	_, err := r.db.ExecContext(ctx, query, user.UserID, user.PasswordHash, user.PubKey, user.SecKey)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.InboxUser, error) {
	query :=
		`SELECT user_id, password_hash, pubkey, seckey, updated_at FROM inbox_users
		 WHERE user_id = $1
		 `

	user := &models.InboxUser{}
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&user.UserID, &user.PasswordHash, &user.PubKey, &user.SecKey, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
