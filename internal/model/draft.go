package model

import (
	"fmt"
	"strings"
)

// Draft is an item report being composed. It only becomes a network
// request once Validate passes.
type Draft struct {
	Type        ItemType `json:"type"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	IsAnonymous bool     `json:"is_anonymous"`
}

// NewDraft returns a draft with the defaults the portal uses: type lost,
// not anonymous.
func NewDraft() Draft { return Draft{Type: ItemLost} }

// ValidationError lists what blocks a submission. It is produced entirely
// client-side, before any network call.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid: "+strings.Join(e.Invalid, ", "))
	}
	return fmt.Sprintf("draft incomplete (%s)", strings.Join(parts, "; "))
}

// Validate checks the required fields and the closed enum sets.
func (d Draft) Validate() error {
	var ve ValidationError
	if strings.TrimSpace(d.Title) == "" {
		ve.Missing = append(ve.Missing, "title")
	}
	if strings.TrimSpace(d.Category) == "" {
		ve.Missing = append(ve.Missing, "category")
	} else if !ValidCategory(d.Category) {
		ve.Invalid = append(ve.Invalid, "category")
	}
	if strings.TrimSpace(d.Location) == "" {
		ve.Missing = append(ve.Missing, "location")
	} else if !ValidLocation(d.Location) {
		ve.Invalid = append(ve.Invalid, "location")
	}
	if strings.TrimSpace(d.Date) == "" {
		ve.Missing = append(ve.Missing, "date")
	}
	if strings.TrimSpace(d.Description) == "" {
		ve.Missing = append(ve.Missing, "description")
	}
	if !d.Type.Valid() {
		ve.Invalid = append(ve.Invalid, "type")
	}
	if len(ve.Missing) > 0 || len(ve.Invalid) > 0 {
		return &ve
	}
	return nil
}
