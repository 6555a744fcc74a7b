package entity

import (
	"context"
	"strings"
	"time"
)

const (
	LeadStatusNew        = "NEW"
	LeadStatusNurturing  = "NURTURING"
	LeadStatusConverted  = "CONVERTED"
	DefaultLeadListLimit = 50
	MaxLeadListLimit     = 200
)

type Lead struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Source     string    `json:"source,omitempty"`
	Status     string    `json:"status"` // NEW, NURTURING, CONVERTED
	EmailStage int       `json:"email_stage"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NormalizeEmail is the canonical form used as the lead and redemption key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type LeadRepositoryInterface interface {
	// Upsert fills ID, Status, EmailStage and timestamps from the stored row.
	Upsert(ctx context.Context, lead *Lead) error
	List(ctx context.Context, status string, limit int) ([]*Lead, error)
}
