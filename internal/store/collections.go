// Package store keeps each owner's calendar data as whole JSON collections on
// top of a pluggable Collections driver.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Collections is the persistence port. Load returns nil when the collection
// has never been written. Save replaces the whole collection.
type Collections interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, records []byte) error
}

const (
	AppointmentsCollection   = "appointments"
	UnavailabilityCollection = "unavailability"
	QuotesCollection         = "quotes"
	InvoicesCollection       = "invoices"
	ClientsCollection        = "clients"
)

// CollectionName scopes a collection to one owner.
func CollectionName(owner, collection string) string {
	return owner + "/" + collection
}

func loadRecords[T any](ctx context.Context, c Collections, name string) ([]T, error) {
	b, err := c.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, name, err)
	}
	return out, nil
}

func saveRecords[T any](ctx context.Context, c Collections, name string, records []T) error {
	if records == nil {
		records = []T{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return c.Save(ctx, name, b)
}

// upsert replaces the record with the same id or appends it, keeping
// insertion order.
func upsert[T any](records []T, rec T, id func(T) string) []T {
	key := id(rec)
	for i := range records {
		if id(records[i]) == key {
			records[i] = rec
			return records
		}
	}
	return append(records, rec)
}

func remove[T any](records []T, key string, id func(T) string) ([]T, bool) {
	for i := range records {
		if id(records[i]) == key {
			return append(records[:i], records[i+1:]...), true
		}
	}
	return records, false
}
