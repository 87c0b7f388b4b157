package domain

import (
	"time"
)

// EntityType identifies the kinds of content subject to review.
type EntityType string

const (
	EntityTypeAsset EntityType = "asset"
	EntityTypeTask  EntityType = "task"
)

// Valid reports whether t is a reviewable entity type.
func (t EntityType) Valid() bool {
	return t == EntityTypeAsset || t == EntityTypeTask
}

// Status is the approval state of a reviewable entity.
type Status string

const (
	StatusDraft            Status = "DRAFT"
	StatusInReview         Status = "IN_REVIEW"
	StatusApproved         Status = "APPROVED"
	StatusChangesRequested Status = "CHANGES_REQUESTED"
)

// Valid reports whether s is a defined approval status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusInReview, StatusApproved, StatusChangesRequested:
		return true
	}
	return false
}

// Entity is a reviewable work item (asset or task). It is owned by exactly
// one organization; the workflow mutates only Status and ReviewNotes,
// always together.
type Entity struct {
	ID          string
	OrgID       string
	Type        EntityType
	Title       string
	Status      Status
	ReviewNotes string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
