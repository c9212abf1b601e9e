package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/storekeeper/connector/pkg/db"
	"github.com/storekeeper/connector/pkg/db/models"
	pkgerrors "github.com/storekeeper/connector/pkg/errors"
	"github.com/storekeeper/connector/pkg/logger"
	"github.com/storekeeper/connector/pkg/storekeeper"
)

type categoryWriter interface {
	categoryFinder
	Create(ctx context.Context, category *models.Category) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
}

// Upserter applies one remote record to local storage. Creates go through
// the unique (store_id, storekeeper_id) index, which arbitrates races: a
// violation surfaces as a conflict the caller can convert into an update.
type Upserter struct {
	repo   categoryWriter
	logger *logger.Logger
}

// NewUpserter builds an upserter over the category repository.
func NewUpserter(repo categoryWriter, logg *logger.Logger) *Upserter {
	return &Upserter{repo: repo, logger: logg}
}

// Create inserts the local twin for a remote record.
func (u *Upserter) Create(ctx context.Context, storeID uuid.UUID, record storekeeper.CategoryRecord) (*models.Category, error) {
	parentID, err := u.resolveParent(ctx, storeID, record)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		ID:            uuid.New(),
		StoreID:       storeID,
		StorekeeperID: record.ID,
		ParentID:      parentID,
		Title:         record.Title,
		Slug:          record.Slug,
		Description:   record.Description,
		Path:          record.Tree.Path,
		Position:      record.Order,
		Published:     record.Published,
	}
	if err := u.repo.Create(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "category already exists for this store")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating category")
	}
	return category, nil
}

// Update overwrites only the columns derived from the record. Local-only
// state on the row is left alone.
func (u *Upserter) Update(ctx context.Context, storeID uuid.UUID, existing *models.Category, record storekeeper.CategoryRecord) (*models.Category, error) {
	parentID, err := u.resolveParent(ctx, storeID, record)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{
		"parent_id":   parentID,
		"title":       record.Title,
		"slug":        record.Slug,
		"description": record.Description,
		"path":        record.Tree.Path,
		"position":    record.Order,
		"published":   record.Published,
	}
	if err := u.repo.UpdateFields(ctx, existing.ID, fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating category")
	}

	updated := *existing
	updated.ParentID = parentID
	updated.Title = record.Title
	updated.Slug = record.Slug
	updated.Description = record.Description
	updated.Path = record.Tree.Path
	updated.Position = record.Order
	updated.Published = record.Published
	return &updated, nil
}

// resolveParent maps the record's remote parent id onto a local row. Path
// ordering puts parents before children within a run, so a missing parent
// means the record is a root or its parent is outside the synced set; the
// row is then attached at the top level.
func (u *Upserter) resolveParent(ctx context.Context, storeID uuid.UUID, record storekeeper.CategoryRecord) (*uuid.UUID, error) {
	if record.ParentID == 0 {
		return nil, nil
	}
	parent, found, err := u.repo.FindByRemoteID(ctx, storeID, record.ParentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving category parent")
	}
	if !found {
		if u.logger != nil {
			u.logger.Warn(u.logger.WithStoreID(ctx, storeID.String()), "category parent not synced, attaching at root")
		}
		return nil, nil
	}
	id := parent.ID
	return &id, nil
}
