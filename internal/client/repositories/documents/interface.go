package documents

import (
	"context"

	"github.com/dmitrijs2005/lexqa/internal/client/models"
)

type Repository interface {
	// Replace stores docs as the complete snapshot for userID.
	Replace(ctx context.Context, userID string, docs models.Collection) error

	// Load returns the snapshot for userID in stored order.
	Load(ctx context.Context, userID string) (docs models.Collection, found bool, err error)
}
