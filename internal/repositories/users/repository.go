package users

import (
	"context"

	"github.com/dmitrijs2005/legaflow/internal/models"
)

type Repository interface {
	Upsert(ctx context.Context, user *models.InboxUser) error
	GetByUserID(ctx context.Context, userID string) (*models.InboxUser, error)
}
