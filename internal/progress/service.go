package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"bookshelf/internal/readinglist"
	"bookshelf/internal/shared"
	"bookshelf/pkg/models"
)

// ValidationMsg is the stable message returned for malformed update input.
const ValidationMsg = "book_id, current_page, and total_pages are required positive integers"

// Service orchestrates a progress update: validate, compute the
// percentage, upsert the progress record, then synchronize the derived
// reading-list status. The reading-list write is best-effort and can
// never fail the progress update.
type Service struct {
	store  Store
	lists  readinglist.Store
	events chan<- models.ProgressUpdate
	logger *log.Logger
}

func NewService(store Store, lists readinglist.Store, events chan<- models.ProgressUpdate, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{store: store, lists: lists, events: events, logger: logger}
}

func (s *Service) Record(ctx context.Context, userID string, in UpdateInput) (models.ProgressRecord, error) {
	if userID == "" {
		return models.ProgressRecord{}, fmt.Errorf("%w: user identity is required", shared.ErrValidation)
	}
	if in.BookID <= 0 || in.CurrentPage <= 0 || in.TotalPages <= 0 {
		return models.ProgressRecord{}, fmt.Errorf("%w: %s", shared.ErrValidation, ValidationMsg)
	}

	pct := Percentage(in.CurrentPage, in.TotalPages)

	rec := models.ProgressRecord{
		UserID:             userID,
		BookID:             in.BookID,
		CurrentPage:        in.CurrentPage,
		TotalPages:         in.TotalPages,
		ProgressPercentage: pct,
	}
	if err := s.store.Upsert(ctx, rec); err != nil {
		if errors.Is(err, shared.ErrStorageUnavailable) {
			return models.ProgressRecord{}, err
		}
		return models.ProgressRecord{}, fmt.Errorf("%w: %s", shared.ErrOperationFailed, err)
	}

	// Best-effort: the progress row is already the record of truth, a
	// failed status sync must not roll it back or fail the call.
	derived := DeriveStatus(pct)
	if err := s.lists.SyncStatus(ctx, userID, in.BookID, derived); err != nil {
		s.logger.Warn("reading list sync failed", "user_id", userID, "book_id", in.BookID, "err", err)
	}

	s.emit(models.ProgressUpdate{
		UserID:      userID,
		BookID:      in.BookID,
		CurrentPage: in.CurrentPage,
		Percentage:  pct,
		Status:      derived,
		Timestamp:   time.Now().Unix(),
	})

	out, err := s.store.Fetch(ctx, userID, in.BookID)
	if err != nil {
		return models.ProgressRecord{}, fmt.Errorf("%w: %s", shared.ErrOperationFailed, err)
	}
	if len(out) == 0 {
		return models.ProgressRecord{}, fmt.Errorf("%w: progress record missing after write", shared.ErrOperationFailed)
	}
	return out[0], nil
}

// List returns a user's progress records, optionally narrowed to one book.
// No records is an empty result, not an error.
func (s *Service) List(ctx context.Context, userID string, bookID int64) ([]models.ProgressRecord, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user identity is required", shared.ErrValidation)
	}
	recs, err := s.store.Fetch(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, shared.ErrStorageUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", shared.ErrOperationFailed, err)
	}
	return recs, nil
}

func (s *Service) emit(evt models.ProgressUpdate) {
	if s.events == nil {
		return
	}
	select {
	case s.events <- evt:
	default:
		s.logger.Warn("progress event channel full, drop event")
	}
}
