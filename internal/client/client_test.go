package client

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/propdesk/backoffice/internal/db"
)

func testRepo(t *testing.T) *Repository {
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
	return NewRepository(d)
}

func TestInsertGetExists(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	c, err := repo.Insert(ctx, &Client{Name: "Marta Díaz", Email: "marta@example.com", DocumentID: "12.345.678-9"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if c.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if c.DocumentID != "12.345.678-9" {
		t.Errorf("document_id = %q", c.DocumentID)
	}

	ok, err := repo.Exists(ctx, c.ID)
	if err != nil || !ok {
		t.Errorf("exists = %v, %v; want true", ok, err)
	}
	ok, err = repo.Exists(ctx, 9999)
	if err != nil || ok {
		t.Errorf("exists(9999) = %v, %v; want false", ok, err)
	}
}

func TestInsertRequiresName(t *testing.T) {
	repo := testRepo(t)
	if _, err := repo.Insert(context.Background(), &Client{}); err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := testRepo(t)
	if _, err := repo.GetByID(context.Background(), 42); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListTerm(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	for _, name := range []string{"Ana Soto", "Andrés Rojas", "Pedro Vidal"} {
		if _, err := repo.Insert(ctx, &Client{Name: name}); err != nil {
			t.Fatalf("insert %s: %v", name, err)
		}
	}

	got, err := repo.List(ctx, "An", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d clients, want 2", len(got))
	}

	all, err := repo.List(ctx, "", 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d clients, want 3", len(all))
	}
}
