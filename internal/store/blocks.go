package store

import (
	"context"

	"minibizz/planning/internal/domain"
)

type BlockRepo struct {
	c     Collections
	locks ownerLocks
}

func NewBlockRepo(c Collections) *BlockRepo {
	return &BlockRepo{c: c}
}

func blockID(b domain.UnavailabilityBlock) string { return b.ID }

func (r *BlockRepo) List(ctx context.Context, owner string) ([]domain.UnavailabilityBlock, error) {
	return loadRecords[domain.UnavailabilityBlock](ctx, r.c, CollectionName(owner, UnavailabilityCollection))
}

func (r *BlockRepo) Save(ctx context.Context, owner string, b domain.UnavailabilityBlock) (domain.UnavailabilityBlock, error) {
	if err := b.Validate(); err != nil {
		return domain.UnavailabilityBlock{}, err
	}

	unlock := r.locks.lock(owner)
	defer unlock()

	name := CollectionName(owner, UnavailabilityCollection)
	blocks, err := loadRecords[domain.UnavailabilityBlock](ctx, r.c, name)
	if err != nil {
		return domain.UnavailabilityBlock{}, err
	}
	blocks = upsert(blocks, b, blockID)
	if err := saveRecords(ctx, r.c, name, blocks); err != nil {
		return domain.UnavailabilityBlock{}, err
	}
	return b, nil
}

func (r *BlockRepo) Delete(ctx context.Context, owner, id string) error {
	unlock := r.locks.lock(owner)
	defer unlock()

	name := CollectionName(owner, UnavailabilityCollection)
	blocks, err := loadRecords[domain.UnavailabilityBlock](ctx, r.c, name)
	if err != nil {
		return err
	}
	blocks, ok := remove(blocks, id, blockID)
	if !ok {
		return nil
	}
	return saveRecords(ctx, r.c, name, blocks)
}
