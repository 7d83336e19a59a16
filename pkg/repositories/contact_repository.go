package repositories

import (
	"context"
	"fmt"

	"github.com/folio-engine/folio-engine/pkg/database"
	"github.com/folio-engine/folio-engine/pkg/models"
)

// ContactRepository stores contact form submissions.
type ContactRepository interface {
	// Create stores a submission with status "new" and returns the receipt.
	Create(ctx context.Context, submission *models.ContactSubmission) (*models.ContactReceipt, error)
}

type contactRepository struct{}

// NewContactRepository creates a ContactRepository.
func NewContactRepository() ContactRepository {
	return &contactRepository{}
}

var _ ContactRepository = (*contactRepository)(nil)

func (r *contactRepository) Create(ctx context.Context, submission *models.ContactSubmission) (*models.ContactReceipt, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	receipt := &models.ContactReceipt{Success: true}
	err := scope.Conn.QueryRow(ctx, `
		INSERT INTO contact_submissions (name, email, company, subject, message, contact_reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		submission.Name, submission.Email, submission.Company, submission.Subject,
		submission.Message, submission.ContactReason, models.ContactStatusNew,
	).Scan(&receipt.ID, &receipt.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to store contact submission: %w", err)
	}
	return receipt, nil
}
