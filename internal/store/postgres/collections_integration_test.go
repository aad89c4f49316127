package postgres

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/uptrace/bun"

	"minibizz/planning/internal/domain"
	"minibizz/planning/internal/store"
)

func TestPostgresIntegration_CollectionsRoundTrip(t *testing.T) {
	databaseURL := strings.TrimSpace(os.Getenv("PLANNING_TEST_DATABASE_URL"))
	if databaseURL == "" {
		t.Skip("PLANNING_TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := Open(ctx, databaseURL, PoolConfig{MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close(db)
	})

	schema := "planning_test_" + randomHex(t, 8)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, _ = db.NewRaw("DROP SCHEMA IF EXISTS " + schema + " CASCADE").Exec(ctx)
	})

	err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewRaw("CREATE SCHEMA " + schema).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewRaw("SET LOCAL search_path TO " + schema).Exec(ctx); err != nil {
			return err
		}
		if err := applyMigrations(ctx, tx); err != nil {
			return err
		}

		cs := NewCollectionStore(tx)
		if b, err := cs.Load(ctx, "u1/appointments"); err != nil || b != nil {
			return fmt.Errorf("Load missing = %q, %v; want nil, nil", b, err)
		}

		repo := store.NewAppointmentRepo(cs)
		start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
		a1, err := repo.Save(ctx, "u1", domain.Appointment{
			ID:       "a1",
			Title:    "t",
			Client:   domain.Unassigned{},
			Start:    start,
			End:      start.Add(time.Hour),
			Kind:     domain.KindAppointment,
			Status:   domain.StatusScheduled,
			Priority: domain.PriorityNormal,
		})
		if err != nil {
			return err
		}

		a1.Title = "renamed"
		if _, err := repo.Save(ctx, "u1", a1); err != nil {
			return err
		}

		rows, err := repo.List(ctx, "u1")
		if err != nil {
			return err
		}
		if len(rows) != 1 || rows[0].Title != "renamed" {
			return fmt.Errorf("rows = %+v, want one renamed appointment", rows)
		}
		if !rows[0].Start.Equal(start) {
			return fmt.Errorf("start = %v, want %v", rows[0].Start, start)
		}

		other, err := repo.List(ctx, "u2")
		if err != nil {
			return err
		}
		if len(other) != 0 {
			return fmt.Errorf("owner u2 sees %d appointments", len(other))
		}

		if err := repo.Delete(ctx, "u1", "a1"); err != nil {
			return err
		}
		if _, err := repo.Get(ctx, "u1", "a1"); !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("Get after delete err = %v, want ErrNotFound", err)
		}

		return nil
	})
	if err != nil {
		t.Fatalf("tx error: %v", err)
	}
}

func randomHex(t *testing.T, bytesLen int) string {
	t.Helper()
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("rand.Read error: %v", err)
	}
	return hex.EncodeToString(b)
}

type rawExecutor interface {
	NewRaw(query string, args ...any) *bun.RawQuery
}

func applyMigrations(ctx context.Context, exec rawExecutor) error {
	dir, err := migrationsDir()
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	type mig struct {
		name string
		path string
	}
	migs := make([]mig, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		migs = append(migs, mig{name: e.Name(), path: filepath.Join(dir, e.Name())})
	}
	sort.Slice(migs, func(i, j int) bool { return migs[i].name < migs[j].name })

	for _, m := range migs {
		b, err := os.ReadFile(m.path)
		if err != nil {
			return err
		}
		upSQL, err := extractGooseUp(string(b))
		if err != nil {
			return err
		}
		stmts := splitSQLStatements(upSQL)
		for _, stmt := range stmts {
			if _, err := exec.NewRaw(stmt).Exec(ctx); err != nil {
				return err
			}
		}
	}

	return nil
}

func migrationsDir() (string, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("runtime.Caller failed")
	}
	base := filepath.Dir(file)
	return filepath.Clean(filepath.Join(base, "..", "..", "..", "migrations")), nil
}

func extractGooseUp(sql string) (string, error) {
	upMarker := "-- +goose Up"
	downMarker := "-- +goose Down"

	upIdx := strings.Index(sql, upMarker)
	if upIdx < 0 {
		return "", fmt.Errorf("missing goose up marker")
	}
	afterUp := sql[upIdx+len(upMarker):]
	afterUp = strings.TrimLeft(afterUp, "\r\n")

	downIdx := strings.Index(afterUp, downMarker)
	if downIdx < 0 {
		return strings.TrimSpace(afterUp), nil
	}
	return strings.TrimSpace(afterUp[:downIdx]), nil
}

func splitSQLStatements(sql string) []string {
	parts := strings.Split(sql, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
