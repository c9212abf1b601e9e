package enums

import "fmt"

// SyncEntity names a remote collection a reconciliation run can walk.
type SyncEntity string

const (
	SyncEntityCategories SyncEntity = "categories"
)

var validSyncEntities = []SyncEntity{
	SyncEntityCategories,
}

// String implements fmt.Stringer.
func (s SyncEntity) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SyncEntity.
func (s SyncEntity) IsValid() bool {
	for _, candidate := range validSyncEntities {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSyncEntity converts raw input into a SyncEntity.
func ParseSyncEntity(value string) (SyncEntity, error) {
	for _, candidate := range validSyncEntities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sync entity %q", value)
}
