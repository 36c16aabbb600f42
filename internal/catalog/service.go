// Package catalog implements the record CRUD operations and announces newly
// created records on the broadcaster.
package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dgnsrekt/catalog-stream/internal/broadcast"
	"github.com/dgnsrekt/catalog-stream/internal/metrics"
	"github.com/dgnsrekt/catalog-stream/internal/store"
)

// Publisher receives records once they are durably stored.
type Publisher interface {
	Publish(rec store.Record) broadcast.Event
}

type Service struct {
	store     store.Store
	publisher Publisher
	validator *validator.Validate
	logger    *zap.Logger
}

func NewService(st store.Store, publisher Publisher, logger *zap.Logger) *Service {
	return &Service{
		store:     st,
		publisher: publisher,
		validator: newValidator(),
		logger:    logger,
	}
}

// Create validates and saves rec, then publishes the saved record. A failed
// save is never published. Any client-supplied ID is ignored.
func (s *Service) Create(ctx context.Context, rec store.Record) (*store.Record, error) {
	rec.ID = ""
	normalize(&rec)
	if err := s.validate(&rec); err != nil {
		return nil, err
	}

	saved, err := s.store.Save(ctx, &rec)
	if err != nil {
		observe("save", err)
		s.logger.Error("failed to save record", zap.String("name", rec.Name), zap.Error(err))
		return nil, &StoreError{Op: "save", Err: err}
	}
	observe("save", nil)

	ev := s.publisher.Publish(*saved)

	s.logger.Info("record created",
		zap.String("id", saved.ID),
		zap.String("name", saved.Name),
		zap.Int("year", saved.Year),
		zap.Uint64("sequence", ev.Sequence),
	)
	return saved, nil
}

// Update replaces the mutable fields of an existing record. Updates are not
// broadcast; the stream carries creation events only.
func (s *Service) Update(ctx context.Context, id string, patch store.Record) (*store.Record, error) {
	normalize(&patch)
	if err := s.validate(&patch); err != nil {
		return nil, err
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = patch.Name
	existing.Year = patch.Year
	existing.Cast = patch.Cast
	existing.ReleaseDate = patch.ReleaseDate

	saved, err := s.store.Save(ctx, existing)
	observe("update", err)
	if err != nil {
		return nil, &StoreError{Op: "update", Err: err}
	}

	s.logger.Info("record updated", zap.String("id", saved.ID))
	return saved, nil
}

func (s *Service) Get(ctx context.Context, id string) (*store.Record, error) {
	rec, err := s.store.FindByID(ctx, id)
	observe("find_by_id", err)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, &StoreError{Op: "find_by_id", Err: err}
	}
	return rec, nil
}

// List returns all records, or only those from year when it is non-nil.
func (s *Service) List(ctx context.Context, year *int) ([]store.Record, error) {
	var (
		recs []store.Record
		err  error
		op   = "find_all"
	)
	if year != nil {
		op = "find_by_year"
		recs, err = s.store.FindByYear(ctx, *year)
	} else {
		recs, err = s.store.FindAll(ctx)
	}
	observe(op, err)
	if err != nil {
		return nil, &StoreError{Op: op, Err: err}
	}
	return recs, nil
}

func (s *Service) FindByName(ctx context.Context, name string) (*store.Record, error) {
	rec, err := s.store.FindByName(ctx, name)
	observe("find_by_name", err)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, &StoreError{Op: "find_by_name", Err: err}
	}
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.store.DeleteByID(ctx, id)
	observe("delete", err)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return &StoreError{Op: "delete", Err: err}
	}
	s.logger.Info("record deleted", zap.String("id", id))
	return nil
}

// normalize trims rec in place. Cast is rebuilt so the caller's backing
// array is never written.
func normalize(rec *store.Record) {
	rec.Name = strings.TrimSpace(rec.Name)
	cast := make([]string, len(rec.Cast))
	for i, c := range rec.Cast {
		cast[i] = strings.TrimSpace(c)
	}
	rec.Cast = cast
}

func observe(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	metrics.StoreOperationsTotal.WithLabelValues(op, result).Inc()
}
