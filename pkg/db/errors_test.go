package db

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	pgErr := errors.New(`ERROR: duplicate key value violates unique constraint "idx_categories_store_remote" (SQLSTATE 23505)`)
	if !IsUniqueViolation(pgErr, "") {
		t.Fatal("expected postgres duplicate key to match")
	}
	if !IsUniqueViolation(pgErr, "idx_categories_store_remote") {
		t.Fatal("expected named constraint to match")
	}
	if IsUniqueViolation(pgErr, "other_constraint") {
		t.Fatal("unexpected match on different constraint")
	}

	sqliteErr := errors.New("UNIQUE constraint failed: categories.store_id, categories.storekeeper_id")
	if !IsUniqueViolation(sqliteErr, "") {
		t.Fatal("expected sqlite unique failure to match")
	}

	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error must not match")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(fmt.Errorf("loading row: %w", gorm.ErrRecordNotFound)) {
		t.Fatal("expected wrapped record-not-found to match")
	}
	if IsNotFound(errors.New("some other error")) {
		t.Fatal("unexpected match")
	}
}
