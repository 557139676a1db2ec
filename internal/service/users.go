package service

import (
	"context"
	"strings"

	"rjboard/internal/auth"
	"rjboard/internal/models"
	"rjboard/internal/upstream"
)

// UserFields carries a profile update. Wallet and Privilege are pointers
// because omitting them is different from setting them to zero.
type UserFields struct {
	Pseudo    string
	Name      string
	Surname   string
	Wallet    *int
	Privilege *int
}

// UserService applies profile updates. Identity fields are self-editable;
// wallet and privilege are restricted to validators.
type UserService struct {
	upstream *upstream.Client
}

func NewUserService(client *upstream.Client) *UserService {
	return &UserService{upstream: client}
}

// Update validates the submitted fields, then checks the privileged-field
// policy, then forwards. Touching another user's profile at all requires
// validator privilege.
func (s *UserService) Update(ctx context.Context, token string, caller *models.User, targetID int64, fields UserFields) (*models.User, error) {
	fieldErrors := FieldErrors{}
	fields.Pseudo = strings.TrimSpace(fields.Pseudo)
	if fields.Pseudo == "" {
		fieldErrors["pseudo"] = "Pseudo is required"
	}
	if fields.Wallet != nil && *fields.Wallet < 0 {
		fieldErrors["wallet"] = "Wallet must be positive"
	}
	if fields.Privilege != nil && *fields.Privilege < 0 {
		fieldErrors["privilege"] = "Privilege must be positive"
	}
	if len(fieldErrors) > 0 {
		return nil, fieldErrors
	}

	editingSelf := caller.ID == targetID
	if !editingSelf && !caller.IsValidator() {
		return nil, ErrNotPermitted
	}
	if fields.Wallet != nil || fields.Privilege != nil {
		if decision := auth.CanEditPrivilegedFields(caller.Privilege, editingSelf); !decision.Allowed {
			return nil, ErrNotPermitted
		}
	}

	return s.upstream.UpdateUser(ctx, token, targetID, upstream.UserFields{
		Pseudo:    fields.Pseudo,
		Name:      strings.TrimSpace(fields.Name),
		Surname:   strings.TrimSpace(fields.Surname),
		Wallet:    fields.Wallet,
		Privilege: fields.Privilege,
	})
}
