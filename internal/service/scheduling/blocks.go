package scheduling

import (
	"context"
	"errors"
	"strings"
	"time"

	"minibizz/planning/internal/domain"
)

type BlockInput struct {
	ID           string
	Start        time.Time
	End          time.Time
	Availability domain.Availability
	Reason       string
	Recurrence   *domain.Recurrence

	IdempotencyKey string
}

func (s *Service) ListBlocks(ctx context.Context, owner string) ([]domain.UnavailabilityBlock, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	return s.blocks.List(ctx, owner)
}

func (s *Service) SaveBlock(ctx context.Context, owner string, in BlockInput) (domain.UnavailabilityBlock, error) {
	if err := requireOwner(owner); err != nil {
		return domain.UnavailabilityBlock{}, err
	}

	availability := in.Availability
	if availability == "" {
		availability = domain.Unavailable
	}
	if availability != domain.Available && availability != domain.Unavailable {
		return domain.UnavailabilityBlock{}, validationError("invalid availability")
	}

	b := domain.UnavailabilityBlock{
		ID:           strings.TrimSpace(in.ID),
		Start:        in.Start.UTC(),
		End:          in.End.UTC(),
		Availability: availability,
		Reason:       strings.TrimSpace(in.Reason),
	}
	if in.Recurrence != nil {
		r := *in.Recurrence
		if r.Until != nil {
			u := r.Until.UTC()
			r.Until = &u
		}
		b.Recurrence = &r
	}

	switch err := b.Validate(); {
	case errors.Is(err, domain.ErrInvalidSpan):
		return domain.UnavailabilityBlock{}, validationError("end must be after start")
	case err != nil:
		return domain.UnavailabilityBlock{}, validationError(err.Error())
	}

	if b.ID == "" {
		id, err := newID(owner, "save_block", in.IdempotencyKey)
		if err != nil {
			return domain.UnavailabilityBlock{}, err
		}
		b.ID = id
	}
	return s.blocks.Save(ctx, owner, b)
}

func (s *Service) DeleteBlock(ctx context.Context, owner, id string) error {
	if err := requireOwner(owner); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return validationError("block_id is required")
	}
	return s.blocks.Delete(ctx, owner, id)
}
