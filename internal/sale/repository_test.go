package sale

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/propdesk/backoffice/internal/db"
)

func TestInsertGetDelete(t *testing.T) {
	repo, d := testSetup(t)
	ctx := context.Background()
	propID := insertProperty(t, d, "1 Bay Rd")
	clientID := insertClient(t, d, "Lucia")

	commission := 3000.0
	s, err := repo.Insert(ctx, &Sale{PropertyID: propID, ClientID: clientID, Value: 150000, Commission: &commission, SaleDate: "2026-05-01"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if s.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if s.AgentID != nil {
		t.Errorf("agent_id = %v, want nil", *s.AgentID)
	}
	if s.Commission == nil || *s.Commission != 3000 {
		t.Errorf("commission = %v, want 3000", s.Commission)
	}

	n, err := repo.CountByProperty(ctx, propID)
	if err != nil || n != 1 {
		t.Fatalf("count = %d, %v; want 1", n, err)
	}

	if err := repo.Delete(ctx, s.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, s.ID); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("get after delete err = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, s.ID); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestOneSalePerProperty(t *testing.T) {
	repo, d := testSetup(t)
	ctx := context.Background()
	propID := insertProperty(t, d, "1 Bay Rd")
	clientID := insertClient(t, d, "Lucia")

	if _, err := repo.Insert(ctx, &Sale{PropertyID: propID, ClientID: clientID, Value: 1, SaleDate: "2026-05-01"}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := repo.Insert(ctx, &Sale{PropertyID: propID, ClientID: clientID, Value: 1, SaleDate: "2026-05-02"}); err == nil {
		t.Fatal("expected unique constraint error for second sale of a property")
	}
}

func TestSearch(t *testing.T) {
	repo, d := testSetup(t)
	ctx := context.Background()
	ana := insertClient(t, d, "Ana Soto")
	pedro := insertClient(t, d, "Pedro Vidal")

	seed := []struct {
		address string
		client  int64
		value   float64
		date    string
	}{
		{"10 Harbour Way", ana, 90000, "2026-01-15"},
		{"11 Harbour Way", pedro, 120000, "2026-02-15"},
		{"4 Mill Lane", ana, 300000, "2026-03-15"},
	}
	for _, s := range seed {
		propID := insertProperty(t, d, s.address)
		if _, err := repo.Insert(ctx, &Sale{PropertyID: propID, ClientID: s.client, Value: s.value, SaleDate: s.date}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	tests := []struct {
		name string
		opts SearchOptions
		want int
	}{
		{"no filter", SearchOptions{}, 3},
		{"address term", SearchOptions{Term: "Harbour"}, 2},
		{"client term", SearchOptions{Term: "Ana"}, 2},
		{"date range", SearchOptions{DateFrom: "2026-02-01", DateTo: "2026-03-31"}, 2},
		{"value range", SearchOptions{MinValue: 100000, MaxValue: 200000}, 1},
		{"limit", SearchOptions{Limit: 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Search(ctx, tt.opts)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d sales, want %d", len(got), tt.want)
			}
		})
	}

	got, err := repo.Search(ctx, SearchOptions{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got[0].SaleDate != "2026-03-15" {
		t.Errorf("first = %q, want newest", got[0].SaleDate)
	}
}

func testSetup(t *testing.T) (*Repository, *sql.DB) {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	return NewRepository(d), d
}

func insertProperty(t *testing.T, d *sql.DB, address string) int64 {
	t.Helper()
	return insertRow(t, d, "INSERT INTO properties (address) VALUES (?)", address)
}

func insertClient(t *testing.T, d *sql.DB, name string) int64 {
	t.Helper()
	return insertRow(t, d, "INSERT INTO clients (name) VALUES (?)", name)
}

func insertRow(t *testing.T, d *sql.DB, stmt string, args ...any) int64 {
	t.Helper()
	res, err := d.Exec(stmt, args...)
	if err != nil {
		t.Fatalf("%s: %v", stmt, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("last insert id: %v", err)
	}
	return id
}
