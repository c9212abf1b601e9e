package types

import "strings"

// OrderAddress holds the storefront's denormalized order address columns.
type OrderAddress struct {
	Company     string `gorm:"column:company" json:"company,omitempty"`
	Firstname   string `gorm:"column:firstname" json:"firstname"`
	Middlename  string `gorm:"column:middlename" json:"middlename,omitempty"`
	Lastname    string `gorm:"column:lastname" json:"lastname"`
	Street      string `gorm:"column:street" json:"street"`
	City        string `gorm:"column:city" json:"city"`
	Postcode    string `gorm:"column:postcode" json:"postcode"`
	CountryISO2 string `gorm:"column:country_iso2" json:"country_iso2"`
	Telephone   string `gorm:"column:telephone" json:"telephone,omitempty"`
}

// ContactName resolves the display name for the address: the business name
// when present, otherwise first, middle, and last name joined by single
// spaces with empty parts skipped.
func (a OrderAddress) ContactName() string {
	if name := strings.TrimSpace(a.Company); name != "" {
		return name
	}
	return ComposeName(a.Firstname, a.Middlename, a.Lastname)
}

// IsZero reports whether no address data is present at all.
func (a OrderAddress) IsZero() bool {
	return a == OrderAddress{}
}

// ComposeName joins name parts with single spaces, skipping empty parts.
func ComposeName(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, " ")
}
