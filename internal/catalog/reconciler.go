package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/storekeeper/connector/pkg/db/models"
	"github.com/storekeeper/connector/pkg/enums"
	pkgerrors "github.com/storekeeper/connector/pkg/errors"
	"github.com/storekeeper/connector/pkg/logger"
	"github.com/storekeeper/connector/pkg/metrics"
	"github.com/storekeeper/connector/pkg/pagination"
	"github.com/storekeeper/connector/pkg/storekeeper"
)

// EntityCategories labels category runs in locks, logs and metrics.
var EntityCategories = enums.SyncEntityCategories.String()

// DefaultCategorySort orders listings by materialized path so parents are
// always applied before their children.
var DefaultCategorySort = []storekeeper.Sort{{Name: "category_tree/path", Dir: "asc"}}

// CategoryLister is the remote listing surface the reconciler consumes.
type CategoryLister interface {
	ListTranslatedCategories(ctx context.Context, offset, limit int, sorts []storekeeper.Sort, filters []storekeeper.Filter) (*storekeeper.CategoryPage, error)
}

type recordMatcher interface {
	Match(ctx context.Context, storeID uuid.UUID, record storekeeper.CategoryRecord) (*models.Category, bool, error)
}

type recordUpserter interface {
	Create(ctx context.Context, storeID uuid.UUID, record storekeeper.CategoryRecord) (*models.Category, error)
	Update(ctx context.Context, storeID uuid.UUID, existing *models.Category, record storekeeper.CategoryRecord) (*models.Category, error)
}

// Params tunes one reconciliation run.
type Params struct {
	PageSize int
	Sorts    []storekeeper.Sort
	Filters  []storekeeper.Filter
}

// RecordError captures one failed record without aborting the run.
type RecordError struct {
	RemoteID int64
	Err      error
}

// RunSummary reports the outcome of one reconciliation run.
type RunSummary struct {
	Total     int
	Processed int
	Errors    []RecordError
}

// Err collapses the per-record failures into a single error, nil when the
// run was clean.
func (s *RunSummary) Err() error {
	var combined error
	for _, recErr := range s.Errors {
		combined = multierr.Append(combined, fmt.Errorf("record %d: %w", recErr.RemoteID, recErr.Err))
	}
	return combined
}

// Reconciler walks the remote category collection page by page and mirrors
// it into local storage.
type Reconciler struct {
	lister   CategoryLister
	matcher  recordMatcher
	upserter recordUpserter
	logger   *logger.Logger
	metrics  *metrics.SyncMetrics
}

// NewReconciler wires the reconciliation engine.
func NewReconciler(lister CategoryLister, matcher recordMatcher, upserter recordUpserter, logg *logger.Logger, syncMetrics *metrics.SyncMetrics) (*Reconciler, error) {
	if lister == nil || matcher == nil || upserter == nil {
		return nil, fmt.Errorf("lister, matcher and upserter are required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Reconciler{
		lister:   lister,
		matcher:  matcher,
		upserter: upserter,
		logger:   logg,
		metrics:  syncMetrics,
	}, nil
}

// Reconcile runs one full pass over the remote collection. The total is
// fixed by the first page; the offset advances by each page's reported
// count; records are applied strictly in listing order. A failing record is
// recorded and skipped, never aborting the rest of the run. A failing page
// fetch aborts the run and returns the summary so far.
func (r *Reconciler) Reconcile(ctx context.Context, storeID uuid.UUID, params Params) (*RunSummary, error) {
	runID := uuid.NewString()
	ctx = r.logger.WithStoreID(ctx, storeID.String())
	ctx = r.logger.WithRunID(ctx, runID)

	summary := &RunSummary{}
	cursor := pagination.NewCursor(params.PageSize)
	sorts := params.Sorts
	if len(sorts) == 0 {
		sorts = DefaultCategorySort
	}

	started := time.Now()
	defer func() {
		r.metrics.ObserveDuration(EntityCategories, time.Since(started))
		r.metrics.AddProcessed(EntityCategories, summary.Processed)
		r.metrics.AddErrors(EntityCategories, len(summary.Errors))
	}()

	r.logger.Info(ctx, "category reconciliation started")
	for !cursor.Done() {
		if err := ctx.Err(); err != nil {
			return summary, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reconciliation canceled")
		}

		page, err := r.lister.ListTranslatedCategories(ctx, cursor.Offset, cursor.PageSize, sorts, params.Filters)
		if err != nil {
			r.logger.Error(ctx, "category page fetch failed", err)
			return summary, err
		}
		cursor.FixTotal(page.Total)
		summary.Total, _ = cursor.Total()
		if cursor.Done() {
			break
		}
		if page.Count <= 0 {
			// The remote claims more rows exist but returned none; bail
			// out instead of spinning on the same offset.
			return summary, pkgerrors.New(pkgerrors.CodeRemote, "remote returned an empty page before the reported total was reached")
		}

		for _, record := range page.Data {
			if err := r.applyRecord(ctx, storeID, record); err != nil {
				summary.Errors = append(summary.Errors, RecordError{RemoteID: record.ID, Err: err})
				r.logger.Error(r.logger.WithField(ctx, "remote_id", record.ID), "category record failed", err)
				continue
			}
			summary.Processed++
		}

		cursor.Advance(page.Count)
		r.logger.Info(r.logger.WithFields(ctx, map[string]any{
			"processed": summary.Processed,
			"total":     summary.Total,
			"offset":    cursor.Offset,
		}), "category page processed")
	}

	r.logger.Info(r.logger.WithFields(ctx, map[string]any{
		"processed": summary.Processed,
		"total":     summary.Total,
		"errors":    len(summary.Errors),
	}), "category reconciliation finished")
	return summary, nil
}

// applyRecord routes one record to create or update. A create losing the
// unique-index race is retried exactly once as an update against the row
// that won.
func (r *Reconciler) applyRecord(ctx context.Context, storeID uuid.UUID, record storekeeper.CategoryRecord) error {
	existing, found, err := r.matcher.Match(ctx, storeID, record)
	if err != nil {
		return err
	}
	if found {
		_, err = r.upserter.Update(ctx, storeID, existing, record)
		return err
	}

	_, err = r.upserter.Create(ctx, storeID, record)
	if err == nil {
		return nil
	}
	if !pkgerrors.IsConflict(err) {
		return err
	}

	winner, found, matchErr := r.matcher.Match(ctx, storeID, record)
	if matchErr != nil {
		return multierr.Append(err, matchErr)
	}
	if !found {
		return err
	}
	_, err = r.upserter.Update(ctx, storeID, winner, record)
	return err
}
