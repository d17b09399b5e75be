package types

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

type Subcontractor struct {
	ID                    string    `db:"id" json:"id"`
	BusinessName          string    `db:"business_name" json:"businessName"`
	ContactFirstName      string    `db:"contact_first_name" json:"contactFirstName"`
	ContactLastName       string    `db:"contact_last_name" json:"contactLastName"`
	ContactEmail          string    `db:"contact_email" json:"contactEmail"`
	ContactPhone          *string   `db:"contact_phone" json:"contactPhone,omitempty"`
	InsuranceContactName  *string   `db:"insurance_contact_name" json:"insuranceContactName,omitempty"`
	InsuranceContactEmail *string   `db:"insurance_contact_email" json:"insuranceContactEmail,omitempty"`
	InsuranceContactPhone *string   `db:"insurance_contact_phone" json:"insuranceContactPhone,omitempty"`
	InsuranceAgencyName   *string   `db:"insurance_agency_name" json:"insuranceAgencyName,omitempty"`
	UploadIDs             []string  `db:"upload_ids" json:"uploads"`
	CreatedAt             time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt             time.Time `db:"updated_at" json:"updatedAt"`
}

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// NormalizeEmail trims and lowercases an email address. Emails are
// stored in this form so the uniqueness constraint is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Validate checks the required-field and email-shape invariants before a
// subcontractor is inserted. ContactEmail must already be normalized.
func (s *Subcontractor) Validate() error {
	if strings.TrimSpace(s.BusinessName) == "" {
		return fmt.Errorf("%w: business name is required", ErrValidation)
	}
	if strings.TrimSpace(s.ContactFirstName) == "" {
		return fmt.Errorf("%w: contact first name is required", ErrValidation)
	}
	if strings.TrimSpace(s.ContactLastName) == "" {
		return fmt.Errorf("%w: contact last name is required", ErrValidation)
	}
	if s.ContactEmail == "" {
		return fmt.Errorf("%w: contact email is required", ErrValidation)
	}
	if !ValidEmail(s.ContactEmail) {
		return fmt.Errorf("%w: contact email is not a valid address", ErrValidation)
	}
	if s.InsuranceContactEmail != nil && *s.InsuranceContactEmail != "" && !ValidEmail(*s.InsuranceContactEmail) {
		return fmt.Errorf("%w: insurance contact email is not a valid address", ErrValidation)
	}
	return nil
}

// SubcontractorPatch carries a partial update. Nil fields are left
// untouched on the stored record.
type SubcontractorPatch struct {
	BusinessName          *string `json:"businessName"`
	ContactFirstName      *string `json:"contactFirstName"`
	ContactLastName       *string `json:"contactLastName"`
	ContactEmail          *string `json:"contactEmail"`
	ContactPhone          *string `json:"contactPhone"`
	InsuranceContactName  *string `json:"insuranceContactName"`
	InsuranceContactEmail *string `json:"insuranceContactEmail"`
	InsuranceContactPhone *string `json:"insuranceContactPhone"`
	InsuranceAgencyName   *string `json:"insuranceAgencyName"`
}

// Changes maps the supplied fields to their column values, normalizing
// and validating emails along the way.
func (p *SubcontractorPatch) Changes() (map[string]any, error) {
	changes := make(map[string]any)

	if p.BusinessName != nil {
		if strings.TrimSpace(*p.BusinessName) == "" {
			return nil, fmt.Errorf("%w: business name cannot be empty", ErrValidation)
		}
		changes["business_name"] = *p.BusinessName
	}
	if p.ContactFirstName != nil {
		if strings.TrimSpace(*p.ContactFirstName) == "" {
			return nil, fmt.Errorf("%w: contact first name cannot be empty", ErrValidation)
		}
		changes["contact_first_name"] = *p.ContactFirstName
	}
	if p.ContactLastName != nil {
		if strings.TrimSpace(*p.ContactLastName) == "" {
			return nil, fmt.Errorf("%w: contact last name cannot be empty", ErrValidation)
		}
		changes["contact_last_name"] = *p.ContactLastName
	}
	if p.ContactEmail != nil {
		email := NormalizeEmail(*p.ContactEmail)
		if !ValidEmail(email) {
			return nil, fmt.Errorf("%w: contact email is not a valid address", ErrValidation)
		}
		changes["contact_email"] = email
	}
	if p.ContactPhone != nil {
		changes["contact_phone"] = strings.TrimSpace(*p.ContactPhone)
	}
	if p.InsuranceContactName != nil {
		changes["insurance_contact_name"] = strings.TrimSpace(*p.InsuranceContactName)
	}
	if p.InsuranceContactEmail != nil {
		email := strings.TrimSpace(*p.InsuranceContactEmail)
		if email != "" && !ValidEmail(email) {
			return nil, fmt.Errorf("%w: insurance contact email is not a valid address", ErrValidation)
		}
		changes["insurance_contact_email"] = email
	}
	if p.InsuranceContactPhone != nil {
		changes["insurance_contact_phone"] = strings.TrimSpace(*p.InsuranceContactPhone)
	}
	if p.InsuranceAgencyName != nil {
		changes["insurance_agency_name"] = strings.TrimSpace(*p.InsuranceAgencyName)
	}

	return changes, nil
}
