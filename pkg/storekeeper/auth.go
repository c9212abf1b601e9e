package storekeeper

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Auth carries the per-store credentials handed out when a shop connects.
// The blob is stored opaque and only decoded here.
type Auth struct {
	Account    string `json:"account"`
	Subaccount string `json:"subaccount"`
	User       string `json:"user"`
	APIKey     string `json:"apikey"`
}

// ParseAuth decodes a stored credential blob.
func ParseAuth(blob string) (Auth, error) {
	var auth Auth
	if strings.TrimSpace(blob) == "" {
		return auth, fmt.Errorf("empty credential blob")
	}
	if err := json.Unmarshal([]byte(blob), &auth); err != nil {
		return auth, fmt.Errorf("decoding credential blob: %w", err)
	}
	if err := auth.Validate(); err != nil {
		return auth, err
	}
	return auth, nil
}

// Validate checks the fields the API requires.
func (a Auth) Validate() error {
	if strings.TrimSpace(a.Account) == "" {
		return fmt.Errorf("auth account is required")
	}
	if strings.TrimSpace(a.APIKey) == "" {
		return fmt.Errorf("auth api key is required")
	}
	return nil
}

// BaseURL derives the account-scoped API endpoint.
func (a Auth) BaseURL() string {
	return fmt.Sprintf("https://api-%s.storekeepercloud.com/", a.Account)
}
