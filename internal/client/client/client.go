package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/lexqa/internal/client/models"
)

type Client interface {
	Ping(ctx context.Context) error
	ListDocuments(ctx context.Context, userID string) (models.Collection, error)
	Upload(ctx context.Context, userID, filename string, content io.Reader) (*models.Document, error)
	DeleteDocument(ctx context.Context, userID, documentID string) error
	Query(ctx context.Context, q models.Query) (*models.Answer, error)
}
