package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
)

// ContactStatusNew is the status of a freshly submitted message.
const ContactStatusNew = "new"

// ContactSubmission is the body of POST /api/contact.
type ContactSubmission struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Company       *string `json:"company"`
	Subject       *string `json:"subject"`
	Message       string  `json:"message"`
	ContactReason *string `json:"contact_reason"`
}

// Validate checks the required fields.
func (c ContactSubmission) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", apperrors.ErrBadRequest)
	}
	if strings.TrimSpace(c.Email) == "" {
		return fmt.Errorf("%w: email is required", apperrors.ErrBadRequest)
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return fmt.Errorf("%w: email is not a valid address", apperrors.ErrBadRequest)
	}
	if strings.TrimSpace(c.Message) == "" {
		return fmt.Errorf("%w: message is required", apperrors.ErrBadRequest)
	}
	return nil
}

// ContactReceipt acknowledges a stored submission.
type ContactReceipt struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
