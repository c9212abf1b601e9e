package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/storekeeper/connector/pkg/db/models"
	pkgerrors "github.com/storekeeper/connector/pkg/errors"
	"github.com/storekeeper/connector/pkg/storekeeper"
)

type memRepo struct {
	rows      map[int64]*models.Category
	createErr error
	updates   []map[string]any
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[int64]*models.Category{}}
}

func (m *memRepo) FindByRemoteID(_ context.Context, _ uuid.UUID, remoteID int64) (*models.Category, bool, error) {
	if cat, ok := m.rows[remoteID]; ok {
		return cat, true, nil
	}
	return nil, false, nil
}

func (m *memRepo) Create(_ context.Context, category *models.Category) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.rows[category.StorekeeperID]; ok {
		return errors.New(`duplicate key value violates unique constraint "idx_categories_store_remote"`)
	}
	m.rows[category.StorekeeperID] = category
	return nil
}

func (m *memRepo) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]any) error {
	m.updates = append(m.updates, fields)
	return nil
}

func TestUpserterCreateLinksParent(t *testing.T) {
	repo := newMemRepo()
	storeID := uuid.New()
	upserter := NewUpserter(repo, testLogger())

	parent, err := upserter.Create(context.Background(), storeID, storekeeper.CategoryRecord{
		ID: 10, Title: "Root", Tree: storekeeper.CategoryTree{Path: "/10"},
	})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	child, err := upserter.Create(context.Background(), storeID, storekeeper.CategoryRecord{
		ID: 11, ParentID: 10, Title: "Child", Tree: storekeeper.CategoryTree{Path: "/10/11"},
	})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	if child.ParentID == nil || *child.ParentID != parent.ID {
		t.Fatalf("child not linked to parent: %+v", child.ParentID)
	}
}

func TestUpserterCreateUnknownParentAttachesAtRoot(t *testing.T) {
	repo := newMemRepo()
	upserter := NewUpserter(repo, testLogger())

	category, err := upserter.Create(context.Background(), uuid.New(), storekeeper.CategoryRecord{
		ID: 20, ParentID: 999, Title: "Orphan",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if category.ParentID != nil {
		t.Fatalf("expected root attachment, got parent %v", category.ParentID)
	}
}

func TestUpserterDuplicateCreateIsConflict(t *testing.T) {
	repo := newMemRepo()
	storeID := uuid.New()
	upserter := NewUpserter(repo, testLogger())
	record := storekeeper.CategoryRecord{ID: 30, Title: "Twice"}

	if _, err := upserter.Create(context.Background(), storeID, record); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := upserter.Create(context.Background(), storeID, record)
	if !pkgerrors.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpserterCreateMapsUniqueViolationPhrasings(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"postgres", errors.New(`ERROR: duplicate key value violates unique constraint "idx_categories_store_remote" (SQLSTATE 23505)`)},
		{"sqlite", errors.New("UNIQUE constraint failed: categories.store_id, categories.storekeeper_id")},
	}
	for _, tc := range cases {
		repo := newMemRepo()
		repo.createErr = tc.err
		upserter := NewUpserter(repo, testLogger())

		_, err := upserter.Create(context.Background(), uuid.New(), storekeeper.CategoryRecord{ID: 31, Title: "Raced"})
		if !pkgerrors.IsConflict(err) {
			t.Fatalf("%s: expected conflict, got %v", tc.name, err)
		}
	}
}

func TestUpserterUpdateWritesOnlyRecordColumns(t *testing.T) {
	repo := newMemRepo()
	storeID := uuid.New()
	upserter := NewUpserter(repo, testLogger())
	existing := &models.Category{ID: uuid.New(), StoreID: storeID, StorekeeperID: 40, Title: "Old"}
	repo.rows[40] = existing

	updated, err := upserter.Update(context.Background(), storeID, existing, storekeeper.CategoryRecord{
		ID: 40, Title: "New", Slug: "new", Published: true, Order: 7,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "New" || updated.Position != 7 || !updated.Published {
		t.Fatalf("record columns not applied: %+v", updated)
	}
	if len(repo.updates) != 1 {
		t.Fatalf("expected one update call, got %d", len(repo.updates))
	}
	fields := repo.updates[0]
	for _, forbidden := range []string{"id", "store_id", "storekeeper_id", "created_at"} {
		if _, ok := fields[forbidden]; ok {
			t.Fatalf("update touched identity column %q", forbidden)
		}
	}
	if fields["title"] != "New" {
		t.Fatalf("title not in update set: %+v", fields)
	}
}

func TestMatcherFindsByRemoteIDOnly(t *testing.T) {
	repo := newMemRepo()
	storeID := uuid.New()
	repo.rows[50] = &models.Category{ID: uuid.New(), StoreID: storeID, StorekeeperID: 50, Title: "Known"}
	matcher := NewMatcher(repo)

	found, ok, err := matcher.Match(context.Background(), storeID, storekeeper.CategoryRecord{ID: 50, Title: "Renamed"})
	if err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}
	if found.StorekeeperID != 50 {
		t.Fatalf("wrong row matched: %+v", found)
	}

	_, ok, err = matcher.Match(context.Background(), storeID, storekeeper.CategoryRecord{ID: 51, Title: "Known"})
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if ok {
		t.Fatal("title must not be used as a fallback key")
	}
}
