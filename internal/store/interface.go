package store

import (
	"context"

	"quotebot/internal/models"
)

// QuoteStore abstracts quote storage backends.
type QuoteStore interface {
	CreateQuote(ctx context.Context, quote *models.Quote) (int64, error)
	ImportQuote(ctx context.Context, quote *models.Quote) error
	GetQuote(ctx context.Context, id int64) (*models.Quote, error)
	QuoteExists(ctx context.Context, id int64) (bool, error)
	DeleteQuote(ctx context.Context, id int64) (string, error)
	FindByText(ctx context.Context, needle string) ([]int64, error)
	FindByAuthor(ctx context.Context, author string) ([]int64, error)
	CountQuotes(ctx context.Context) (int64, error)
	MostRecentID(ctx context.Context, max models.SafetyLevel) (int64, error)
	RandomID(ctx context.Context, requireImage bool, max models.SafetyLevel) (int64, bool, error)
	SetSafety(ctx context.Context, id int64, level models.SafetyLevel) error
	AllQuotes(ctx context.Context) ([]models.Quote, error)
}

var _ QuoteStore = (*Store)(nil)
