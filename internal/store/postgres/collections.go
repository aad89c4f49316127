// Package postgres stores collections as jsonb rows through bun.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

type collectionRow struct {
	bun.BaseModel `bun:"table:planning_collections"`

	Name      string    `bun:"name,pk"`
	Records   string    `bun:"records,type:jsonb,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

type CollectionStore struct {
	db bun.IDB
}

// NewCollectionStore accepts a *bun.DB or a bun.Tx.
func NewCollectionStore(db bun.IDB) *CollectionStore {
	return &CollectionStore{db: db}
}

// EnsureSchema creates the collections table when migrations were not run.
func (s *CollectionStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*collectionRow)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func (s *CollectionStore) Load(ctx context.Context, name string) ([]byte, error) {
	var row collectionRow
	err := s.db.NewSelect().
		Model(&row).
		Where("name = ?", name).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(row.Records), nil
}

func (s *CollectionStore) Save(ctx context.Context, name string, records []byte) error {
	row := collectionRow{Name: name, Records: string(records), UpdatedAt: time.Now().UTC()}
	_, err := s.db.NewInsert().
		Model(&row).
		On("CONFLICT (name) DO UPDATE").
		Set("records = EXCLUDED.records").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}
