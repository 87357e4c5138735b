package models

import "strings"

// RoleType defines the user role type
type RoleType string

const (
	RoleAdmin   RoleType = "admin"
	RoleStudent RoleType = "student"
)

// Valid reports whether r is a known role
func (r RoleType) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

// Category is the fixed set of event categories
type Category string

const (
	CategoryTech     Category = "Tech"
	CategoryCultural Category = "Cultural"
	CategorySports   Category = "Sports"
	CategoryAcademic Category = "Academic"
	CategorySocial   Category = "Social"
	CategoryOthers   Category = "Others"
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryTech,
	CategoryCultural,
	CategorySports,
	CategoryAcademic,
	CategorySocial,
	CategoryOthers,
}

// Valid reports whether c is one of Categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory resolves a category case-insensitively. Empty input yields
// CategoryOthers.
func ParseCategory(raw string) (Category, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return CategoryOthers, true
	}
	for _, known := range Categories {
		if strings.EqualFold(raw, string(known)) {
			return known, true
		}
	}
	return "", false
}

// RSVPStatus is the attendance answer stored on an RSVP
type RSVPStatus string

const (
	RSVPStatusYes   RSVPStatus = "yes"
	RSVPStatusNo    RSVPStatus = "no"
	RSVPStatusMaybe RSVPStatus = "maybe"
)

// Valid reports whether s is a known status
func (s RSVPStatus) Valid() bool {
	return s == RSVPStatusYes || s == RSVPStatusNo || s == RSVPStatusMaybe
}
