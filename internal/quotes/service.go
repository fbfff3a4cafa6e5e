// Package quotes orchestrates the quote store, the image directory, and the
// attachment fetcher behind one service used by the bot and the CLI.
package quotes

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"quotebot/internal/fetch"
	"quotebot/internal/imagestore"
	"quotebot/internal/models"
	"quotebot/internal/store"
)

// Service owns every mutation of the quote collection and its image files.
type Service struct {
	store   store.QuoteStore
	images  *imagestore.Dir
	fetcher *fetch.Fetcher
	logger  *slog.Logger
}

// NewService constructs a Service.
func NewService(st store.QuoteStore, images *imagestore.Dir, fetcher *fetch.Fetcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, images: images, fetcher: fetcher, logger: logger}
}

// AddText stores a text-only quote and returns its id.
func (s *Service) AddText(ctx context.Context, text string, safety models.SafetyLevel, author string, createdAt float64) (int64, error) {
	quote := &models.Quote{
		Text:      text,
		Safety:    safety,
		Author:    author,
		CreatedAt: createdAt,
	}
	return s.store.CreateQuote(ctx, quote)
}

// AddImage downloads the attachment at imageURL, stores it locally, and
// records a quote referencing it. The downloaded file is removed again if
// the record cannot be persisted.
func (s *Service) AddImage(ctx context.Context, imageURL, text string, safety models.SafetyLevel, author string, createdAt float64) (int64, error) {
	name, err := s.fetcher.FetchImage(ctx, imageURL)
	if err != nil {
		return 0, err
	}

	quote := &models.Quote{
		Text:      text,
		ImageName: name,
		Safety:    safety,
		Author:    author,
		CreatedAt: createdAt,
	}
	id, err := s.store.CreateQuote(ctx, quote)
	if err != nil {
		if removeErr := s.images.Remove(name); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			s.logger.Warn("could not remove orphaned image", "name", name, "error", removeErr)
		}
		return 0, err
	}
	return id, nil
}

// Delete removes a quote record and its backing image file. A record whose
// image file is already missing is still deleted; the inconsistency is
// logged rather than blocking the removal.
func (s *Service) Delete(ctx context.Context, id int64) error {
	imageName, err := s.store.DeleteQuote(ctx, id)
	if err != nil {
		return err
	}
	if imageName == "" {
		return nil
	}

	if err := s.images.Remove(imageName); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("expected an image on disk and found none", "quote_id", id, "name", imageName)
			return nil
		}
		s.logger.Error("could not remove image", "quote_id", id, "name", imageName, "error", err)
	}
	return nil
}

// Get returns a quote by id.
func (s *Service) Get(ctx context.Context, id int64) (*models.Quote, error) {
	return s.store.GetQuote(ctx, id)
}

// FindByText returns ids of quotes containing the needle in their text.
func (s *Service) FindByText(ctx context.Context, needle string) ([]int64, error) {
	return s.store.FindByText(ctx, needle)
}

// FindByAuthor returns ids of quotes authored by the given display name.
func (s *Service) FindByAuthor(ctx context.Context, author string) ([]int64, error) {
	return s.store.FindByAuthor(ctx, author)
}

// Count returns the total number of stored quotes.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.CountQuotes(ctx)
}

// MostRecentID returns the newest quote id at or below the safety ceiling.
func (s *Service) MostRecentID(ctx context.Context, max models.SafetyLevel) (int64, error) {
	return s.store.MostRecentID(ctx, max)
}

// RandomID returns a random qualifying quote id, or ok=false when none.
func (s *Service) RandomID(ctx context.Context, requireImage bool, max models.SafetyLevel) (int64, bool, error) {
	return s.store.RandomID(ctx, requireImage, max)
}

// SetSafety changes the safety level of a stored quote.
func (s *Service) SetSafety(ctx context.Context, id int64, level models.SafetyLevel) error {
	return s.store.SetSafety(ctx, id, level)
}

// ImagePath resolves a stored image name to an absolute path, reporting
// whether the file is actually present.
func (s *Service) ImagePath(name string) (string, bool) {
	path, err := s.images.Path(name)
	if err != nil {
		return "", false
	}
	ok, err := s.images.Exists(name)
	if err != nil || !ok {
		return path, false
	}
	return path, true
}
