package contract

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/propdesk/backoffice/internal/db"
)

func TestAddAndList(t *testing.T) {
	repo, _, propID, clientID := testSetup(t)
	ctx := context.Background()

	c, err := repo.Add(ctx, &Contract{PropertyID: propID, ClientID: clientID, ContractType: TypeSale, Number: "CV-001"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if c.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if c.ContractType != TypeSale {
		t.Errorf("type = %q, want sale", c.ContractType)
	}

	list, err := repo.ListByPropertyID(ctx, propID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d contracts, want 1", len(list))
	}
}

func TestAddInvalidType(t *testing.T) {
	repo, _, propID, clientID := testSetup(t)

	_, err := repo.Add(context.Background(), &Contract{PropertyID: propID, ClientID: clientID, ContractType: "lease"})
	if err == nil {
		t.Fatal("expected error for invalid contract type")
	}
}

func TestCount(t *testing.T) {
	repo, d, propID, clientID := testSetup(t)
	ctx := context.Background()

	res, err := d.Exec(`INSERT INTO clients (name) VALUES ('Other')`)
	if err != nil {
		t.Fatalf("insert client: %v", err)
	}
	otherClient, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("last insert id: %v", err)
	}

	seed := []Contract{
		{PropertyID: propID, ClientID: clientID, ContractType: TypeSale},
		{PropertyID: propID, ClientID: clientID, ContractType: TypeSale},
		{PropertyID: propID, ClientID: clientID, ContractType: TypeRental},
		{PropertyID: propID, ClientID: otherClient, ContractType: TypeSale},
	}
	for i := range seed {
		if _, err := repo.Add(ctx, &seed[i]); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	tests := []struct {
		name   string
		client int64
		typ    Type
		want   int
	}{
		{"sale contracts for pair", clientID, TypeSale, 2},
		{"rental contracts for pair", clientID, TypeRental, 1},
		{"other client", otherClient, TypeSale, 1},
		{"no contracts", otherClient, TypeRental, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := repo.Count(ctx, propID, tt.client, tt.typ)
			if err != nil {
				t.Fatalf("count: %v", err)
			}
			if n != tt.want {
				t.Errorf("count = %d, want %d", n, tt.want)
			}
		})
	}
}

func testSetup(t *testing.T) (*Repository, *sql.DB, int64, int64) {
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

	res, err := d.Exec(`INSERT INTO properties (address) VALUES ('5 Pine St')`)
	if err != nil {
		t.Fatalf("insert property: %v", err)
	}
	propID, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("last insert id: %v", err)
	}

	res, err = d.Exec(`INSERT INTO clients (name) VALUES ('Lucia')`)
	if err != nil {
		t.Fatalf("insert client: %v", err)
	}
	clientID, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("last insert id: %v", err)
	}

	return NewRepository(d), d, propID, clientID
}
