package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/storekeeper/connector/pkg/db/models"
	"github.com/storekeeper/connector/pkg/storekeeper"
)

type categoryFinder interface {
	FindByRemoteID(ctx context.Context, storeID uuid.UUID, remoteID int64) (*models.Category, bool, error)
}

// Matcher decides whether a remote record already has a local twin. The
// lookup key is the remote identifier scoped by store; there is deliberately
// no business-key fallback, so same-named but distinct remote entities never
// merge.
type Matcher struct {
	repo categoryFinder
}

// NewMatcher builds a matcher over the category repository.
func NewMatcher(repo categoryFinder) *Matcher {
	return &Matcher{repo: repo}
}

// Match returns the local twin and whether one exists. Pure read; safe to
// call repeatedly for the same record.
func (m *Matcher) Match(ctx context.Context, storeID uuid.UUID, record storekeeper.CategoryRecord) (*models.Category, bool, error) {
	return m.repo.FindByRemoteID(ctx, storeID, record.ID)
}
