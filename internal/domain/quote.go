package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type QuoteStatus string

const (
	QuoteStatusPending    QuoteStatus = "pending"
	QuoteStatusInProgress QuoteStatus = "in_progress"
	QuoteStatusCompleted  QuoteStatus = "completed"
	QuoteStatusCancelled  QuoteStatus = "cancelled"
)

// Quote is a project quotation request, submitted with or without an account.
type Quote struct {
	ID              uuid.UUID
	OwnerID         *string
	Name            string
	Email           string
	Company         string
	Phone           string
	ProjectType     string
	ProjectLocation string
	Timeline        string
	AdditionalNotes string
	Status          QuoteStatus
	Items           []QuoteItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

type QuoteItem struct {
	StoneID  uuid.UUID
	Quantity int
	Notes    string
}

func (q Quote) Validate() error {
	if q.Name == "" {
		return errors.New("name is required")
	}
	if q.Email == "" {
		return errors.New("email is required")
	}
	if q.ProjectType == "" {
		return errors.New("project_type is required")
	}
	for _, item := range q.Items {
		if item.Quantity < 1 {
			return errors.New("item quantity must be at least 1")
		}
	}

	return nil
}
