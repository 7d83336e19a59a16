package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/models"
	"github.com/folio-engine/folio-engine/pkg/repositories"
)

// ContactReceivedMessage acknowledges a stored contact submission.
const ContactReceivedMessage = "Thank you for your message! I'll get back to you soon."

// ContactService stores contact form submissions.
type ContactService interface {
	Submit(ctx context.Context, submission *models.ContactSubmission) (*models.ContactReceipt, error)
}

type contactService struct {
	repo   repositories.ContactRepository
	logger *zap.Logger
}

// NewContactService creates a ContactService.
func NewContactService(repo repositories.ContactRepository, logger *zap.Logger) ContactService {
	return &contactService{
		repo:   repo,
		logger: logger.Named("contact-service"),
	}
}

var _ ContactService = (*contactService)(nil)

func (s *contactService) Submit(ctx context.Context, submission *models.ContactSubmission) (*models.ContactReceipt, error) {
	if err := submission.Validate(); err != nil {
		return nil, err
	}
	receipt, err := s.repo.Create(ctx, submission)
	if err != nil {
		return nil, err
	}
	receipt.Message = ContactReceivedMessage

	// Submitter details stay out of the log.
	s.logger.Info("Contact submission stored", zap.Int64("contact_id", receipt.ID))
	return receipt, nil
}
