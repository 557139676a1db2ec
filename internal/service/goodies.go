package service

import (
	"context"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/errgroup"

	"rjboard/internal/auth"
	"rjboard/internal/models"
	"rjboard/internal/upstream"
)

// GoodiesFields are the mutable fields of a goodies item.
type GoodiesFields struct {
	Name        string
	Description string
	Price       int
	BuyLimit    int
}

// ValidateGoodiesFields is the first phase of every goodies mutation. It
// runs before any authorization check so a malformed request yields field
// errors even for a caller who would not be permitted anyway.
func ValidateGoodiesFields(fields GoodiesFields) FieldErrors {
	fieldErrors := FieldErrors{}
	if strings.TrimSpace(fields.Name) == "" {
		fieldErrors["name"] = "Name is required"
	}
	if fields.Price < 0 {
		fieldErrors["price"] = "Price must be positive"
	}
	if fields.BuyLimit < 1 {
		fieldErrors["buy-limit"] = "Buy limit must be at least 1"
	}
	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}

// GoodiesService gates goodies mutations to the creator and assembles the
// goodies detail view.
type GoodiesService struct {
	upstream  *upstream.Client
	purchases *PurchaseService
	sanitize  *bluemonday.Policy
}

func NewGoodiesService(client *upstream.Client, purchases *PurchaseService) *GoodiesService {
	return &GoodiesService{
		upstream:  client,
		purchases: purchases,
		sanitize:  bluemonday.StrictPolicy(),
	}
}

// Create publishes a new goodies item owned by the caller.
func (s *GoodiesService) Create(ctx context.Context, token string, fields GoodiesFields) (*models.Goodies, error) {
	if fieldErrors := ValidateGoodiesFields(fields); fieldErrors != nil {
		return nil, fieldErrors
	}
	return s.upstream.CreateGoodies(ctx, token, s.cleanFields(fields))
}

// Update validates fields, then verifies the caller created the item, then
// forwards. The ordering is part of the contract: validation strictly
// before authorization, authorization strictly before the mutation.
func (s *GoodiesService) Update(ctx context.Context, token string, callerID, goodiesID int64, fields GoodiesFields) (*models.Goodies, error) {
	if fieldErrors := ValidateGoodiesFields(fields); fieldErrors != nil {
		return nil, fieldErrors
	}
	if err := s.authorizeMutation(ctx, token, callerID, goodiesID); err != nil {
		return nil, err
	}
	return s.upstream.UpdateGoodies(ctx, token, goodiesID, s.cleanFields(fields))
}

// Delete removes a goodies item. Creator only.
func (s *GoodiesService) Delete(ctx context.Context, token string, callerID, goodiesID int64) error {
	if err := s.authorizeMutation(ctx, token, callerID, goodiesID); err != nil {
		return err
	}
	return s.upstream.DeleteGoodies(ctx, token, goodiesID)
}

func (s *GoodiesService) authorizeMutation(ctx context.Context, token string, callerID, goodiesID int64) error {
	goodies, err := s.upstream.GetGoodies(ctx, token, goodiesID)
	if err != nil {
		return err
	}
	if goodies == nil {
		return ErrNotFound
	}
	if decision := auth.CanMutateGoodies(callerID, goodies.CreatorID); !decision.Allowed {
		return ErrNotPermitted
	}
	return nil
}

func (s *GoodiesService) cleanFields(fields GoodiesFields) upstream.GoodiesFields {
	return upstream.GoodiesFields{
		Name:        s.sanitize.Sanitize(strings.TrimSpace(fields.Name)),
		Description: s.sanitize.Sanitize(strings.TrimSpace(fields.Description)),
		Price:       fields.Price,
		BuyLimit:    fields.BuyLimit,
	}
}

// GoodiesDetail is the data the presentation layer needs for a goodies
// page: the item, its creator, and the undelivered purchases against it.
type GoodiesDetail struct {
	Goodies     *models.Goodies   `json:"goodies"`
	Creator     *models.User      `json:"creator,omitempty"`
	Undelivered []models.Purchase `json:"undelivered"`
}

// Detail fetches the creator and the undelivered purchases concurrently
// once the item itself is known. The two reads are independent, so the
// fan-out is safe.
func (s *GoodiesService) Detail(ctx context.Context, token string, goodiesID int64) (*GoodiesDetail, error) {
	goodies, err := s.upstream.GetGoodies(ctx, token, goodiesID)
	if err != nil {
		return nil, err
	}
	if goodies == nil {
		return nil, ErrNotFound
	}

	detail := &GoodiesDetail{Goodies: goodies}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		creator, err := s.upstream.GetUser(groupCtx, token, goodies.CreatorID)
		if err != nil {
			return err
		}
		detail.Creator = creator
		return nil
	})
	group.Go(func() error {
		undelivered, err := s.purchases.ListUndelivered(groupCtx, token, &goodies.ID, nil)
		if err != nil {
			return err
		}
		detail.Undelivered = undelivered
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return detail, nil
}
