package rental

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/propdesk/backoffice/internal/db"
)

func TestInsertAndGet(t *testing.T) {
	repo, propID, clientID := testSetup(t)
	ctx := context.Background()

	deposit := 1200.0
	rt, err := repo.Insert(ctx, &Rental{
		PropertyID: propID, ClientID: clientID, StartDate: "2026-01-01", EndDate: "2026-12-31",
		MonthlyRent: 800, Deposit: &deposit,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if rt.Status != Active {
		t.Errorf("status = %q, want active", rt.Status)
	}
	if rt.Deposit == nil || *rt.Deposit != 1200 {
		t.Errorf("deposit = %v, want 1200", rt.Deposit)
	}
	if rt.AgentID != nil {
		t.Errorf("agent_id = %v, want nil", *rt.AgentID)
	}

	if _, err := repo.GetByID(ctx, 999); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateStatusIf(t *testing.T) {
	repo, propID, clientID := testSetup(t)
	ctx := context.Background()
	rt := insert(t, repo, propID, clientID, "2026-01-01", "2026-06-30", Active)

	ok, err := repo.UpdateStatusIf(ctx, rt.ID, Overdue, Terminated)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if ok {
		t.Error("stale from-status should not update")
	}

	ok, err = repo.UpdateStatusIf(ctx, rt.ID, Active, Delinquent)
	if err != nil || !ok {
		t.Fatalf("update = %v, %v; want true", ok, err)
	}

	got, err := repo.GetByID(ctx, rt.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != Delinquent {
		t.Errorf("status = %q, want delinquent", got.Status)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	repo, propID, clientID := testSetup(t)
	ctx := context.Background()
	rt := insert(t, repo, propID, clientID, "2026-01-01", "2026-06-30", Active)

	rt.MonthlyRent = 950
	rt.EndDate = "2026-09-30"
	if err := repo.Update(ctx, rt); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.GetByID(ctx, rt.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.MonthlyRent != 950 || got.EndDate != "2026-09-30" {
		t.Errorf("got rent %v end %q, want edited values", got.MonthlyRent, got.EndDate)
	}

	if err := repo.Delete(ctx, rt.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, rt.ID); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestHasOverlap(t *testing.T) {
	repo, propID, clientID := testSetup(t)
	ctx := context.Background()
	existing := insert(t, repo, propID, clientID, "2026-03-01", "2026-06-01", Active)
	insert(t, repo, propID, clientID, "2026-07-01", "2026-09-01", Terminated)

	tests := []struct {
		name      string
		start     string
		end       string
		excludeID int64
		want      bool
	}{
		{"inside", "2026-04-01", "2026-05-01", 0, true},
		{"straddles start", "2026-02-01", "2026-03-15", 0, true},
		{"ends on start", "2026-01-01", "2026-03-01", 0, false},
		{"starts on end", "2026-06-01", "2026-07-01", 0, false},
		{"over terminated lease", "2026-07-15", "2026-08-15", 0, false},
		{"excluding itself", "2026-04-01", "2026-05-01", existing.ID, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.HasOverlap(ctx, propID, tt.start, tt.end, tt.excludeID)
			if err != nil {
				t.Fatalf("overlap: %v", err)
			}
			if got != tt.want {
				t.Errorf("overlap = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	repo, propID, clientID := testSetup(t)
	ctx := context.Background()
	insert(t, repo, propID, clientID, "2025-01-01", "2025-06-01", Terminated)
	insert(t, repo, propID, clientID, "2026-01-01", "2026-06-01", Active)

	tests := []struct {
		name string
		opts SearchOptions
		want int
	}{
		{"all", SearchOptions{}, 2},
		{"status", SearchOptions{Status: Active}, 1},
		{"term", SearchOptions{Term: "Pine"}, 2},
		{"date window", SearchOptions{DateFrom: "2025-12-01", DateTo: "2026-02-01"}, 1},
		{"rent range", SearchOptions{MinRent: 900}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Search(ctx, tt.opts)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d rentals, want %d", len(got), tt.want)
			}
		})
	}
}

func TestExpiring(t *testing.T) {
	repo, propID, clientID := testSetup(t)
	ctx := context.Background()
	today := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	insert(t, repo, propID, clientID, "2025-05-01", "2026-05-20", Active)
	insert(t, repo, propID, clientID, "2025-04-01", "2026-05-10", Overdue)
	insert(t, repo, propID, clientID, "2025-03-01", "2026-05-05", Terminated)
	insert(t, repo, propID, clientID, "2025-02-01", "2026-08-01", Active)

	got, err := repo.Expiring(ctx, today, 30, 0)
	if err != nil {
		t.Fatalf("expiring: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rentals, want 2", len(got))
	}
	if got[0].EndDate != "2026-05-10" {
		t.Errorf("first = %q, want soonest end", got[0].EndDate)
	}
}

func insert(t *testing.T, repo *Repository, propID, clientID int64, start, end string, status Status) *Rental {
	t.Helper()
	rt, err := repo.Insert(context.Background(), &Rental{
		PropertyID: propID, ClientID: clientID, StartDate: start, EndDate: end, MonthlyRent: 800, Status: status,
	})
	if err != nil {
		t.Fatalf("insert rental: %v", err)
	}
	return rt
}

func testSetup(t *testing.T) (*Repository, int64, int64) {
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
	propID := insertRow(t, d, "INSERT INTO properties (address) VALUES (?)", "3 Pine Court")
	clientID := insertRow(t, d, "INSERT INTO clients (name) VALUES (?)", "Marta")
	return NewRepository(d), propID, clientID
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
