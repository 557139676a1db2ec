package service

import (
	"context"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"rjboard/internal/auth"
	"rjboard/internal/models"
	"rjboard/internal/upstream"
)

// AccomplishmentService owns the accomplishment lifecycle: submission in
// PENDING, then a single validator decision to VALIDATED or REFUSED.
type AccomplishmentService struct {
	upstream *upstream.Client
	sanitize *bluemonday.Policy
}

func NewAccomplishmentService(client *upstream.Client) *AccomplishmentService {
	return &AccomplishmentService{
		upstream: client,
		sanitize: bluemonday.StrictPolicy(),
	}
}

// Submit creates a PENDING accomplishment for the authenticated caller.
// An empty proof is a field error, not an authorization error.
func (s *AccomplishmentService) Submit(ctx context.Context, token string, challengeID int64, proof string) (*models.Accomplishment, error) {
	proof = strings.TrimSpace(proof)
	if proof == "" {
		return nil, FieldErrors{"proof": "Proof is required"}
	}

	return s.upstream.CreateAccomplishment(ctx, token, upstream.AccomplishmentCreate{
		ChallengeID: challengeID,
		Proof:       s.sanitize.Sanitize(proof),
	})
}

// Decide transitions a PENDING accomplishment to VALIDATED (approve) or
// REFUSED. A second decision on the same accomplishment is rejected with
// ErrStateConflict regardless of caller privilege.
func (s *AccomplishmentService) Decide(ctx context.Context, token string, callerPrivilege int, accomplishmentID int64, approve bool) (*models.Accomplishment, error) {
	if decision := auth.CanValidateAccomplishment(callerPrivilege); !decision.Allowed {
		return nil, ErrNotPermitted
	}

	accomplishment, err := s.upstream.GetAccomplishment(ctx, token, accomplishmentID)
	if err != nil {
		return nil, err
	}
	if accomplishment == nil {
		return nil, ErrNotFound
	}
	if accomplishment.Validation != models.ValidationPending {
		return nil, ErrStateConflict
	}

	status := models.ValidationRefused
	if approve {
		status = models.ValidationValidated
	}

	return s.upstream.UpdateAccomplishment(ctx, token, accomplishmentID, upstream.AccomplishmentUpdate{
		Validation: &status,
	})
}

// Update lets the owner rework the proof while the accomplishment is still
// pending. Decided accomplishments are frozen.
func (s *AccomplishmentService) Update(ctx context.Context, token string, callerID, accomplishmentID int64, proof string) (*models.Accomplishment, error) {
	proof = strings.TrimSpace(proof)
	if proof == "" {
		return nil, FieldErrors{"proof": "Proof is required"}
	}

	accomplishment, err := s.requireOwnPending(ctx, token, callerID, accomplishmentID)
	if err != nil {
		return nil, err
	}

	sanitized := s.sanitize.Sanitize(proof)
	return s.upstream.UpdateAccomplishment(ctx, token, accomplishment.ID, upstream.AccomplishmentUpdate{
		Proof: &sanitized,
	})
}

// Delete withdraws the owner's pending accomplishment.
func (s *AccomplishmentService) Delete(ctx context.Context, token string, callerID, accomplishmentID int64) error {
	accomplishment, err := s.requireOwnPending(ctx, token, callerID, accomplishmentID)
	if err != nil {
		return err
	}
	return s.upstream.DeleteAccomplishment(ctx, token, accomplishment.ID)
}

func (s *AccomplishmentService) requireOwnPending(ctx context.Context, token string, callerID, accomplishmentID int64) (*models.Accomplishment, error) {
	accomplishment, err := s.upstream.GetAccomplishment(ctx, token, accomplishmentID)
	if err != nil {
		return nil, err
	}
	if accomplishment == nil {
		return nil, ErrNotFound
	}
	if accomplishment.UserID != callerID {
		return nil, ErrNotPermitted
	}
	if accomplishment.Validation != models.ValidationPending {
		return nil, ErrStateConflict
	}
	return accomplishment, nil
}
