package cart

import (
	"testing"

	"github.com/ovenfresh/bakery-shop-backend/internal/product"
)

type fakeCatalog struct {
	products map[int]product.Product
}

func (f *fakeCatalog) GetByID(id int) (product.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return product.Product{}, product.ErrNotFound
	}
	return p, nil
}

func newTestService(userID int) *Service {
	repo := NewInMemoryRepository(map[int][]Line{userID: {}})
	catalog := &fakeCatalog{products: map[int]product.Product{
		1: {ID: 1, Name: "Croissant", Price: 120},
		2: {ID: 2, Name: "Sourdough Loaf", Price: 250},
	}}
	return NewService(repo, catalog)
}

func TestAddItem_Idempotent(t *testing.T) {
	s := newTestService(7)

	if _, err := s.AddItem(7, 1); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	crt, err := s.AddItem(7, 1)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	if len(crt.Lines) != 1 {
		t.Fatalf("expected one line after duplicate add, got %d", len(crt.Lines))
	}
	if crt.Lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", crt.Lines[0].Quantity)
	}
}

func TestSetQuantity_ZeroRemovesLine(t *testing.T) {
	s := newTestService(7)

	if _, err := s.AddItem(7, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	crt, err := s.SetQuantity(7, 1, 0)
	if err != nil {
		t.Fatalf("set quantity failed: %v", err)
	}

	if len(crt.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(crt.Lines))
	}
	if crt.ItemCount != 0 {
		t.Fatalf("expected itemCount 0, got %d", crt.ItemCount)
	}
}

func TestRemoveItem_AbsentProductIsNoop(t *testing.T) {
	s := newTestService(7)

	if _, err := s.AddItem(7, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	crt, err := s.RemoveItem(7, 99)
	if err != nil {
		t.Fatalf("remove of absent product should not error: %v", err)
	}
	if len(crt.Lines) != 1 {
		t.Fatalf("expected cart untouched, got %d lines", len(crt.Lines))
	}
}

func TestTotals_ConsistentAcrossMutations(t *testing.T) {
	s := newTestService(7)

	check := func(crt Cart) {
		t.Helper()
		var subtotal float64
		var count int
		for _, l := range crt.Lines {
			subtotal += l.UnitPrice * float64(l.Quantity)
			count += l.Quantity
		}
		if crt.Subtotal != subtotal {
			t.Fatalf("subtotal drifted: got %v want %v", crt.Subtotal, subtotal)
		}
		if crt.ItemCount != count {
			t.Fatalf("itemCount drifted: got %d want %d", crt.ItemCount, count)
		}
	}

	crt, _ := s.AddItem(7, 1)
	check(crt)
	crt, _ = s.AddItem(7, 2)
	check(crt)
	crt, _ = s.SetQuantity(7, 1, 5)
	check(crt)
	crt, _ = s.SetQuantity(7, 2, 3)
	check(crt)
	crt, _ = s.RemoveItem(7, 1)
	check(crt)

	if crt.Subtotal != 750 {
		t.Fatalf("expected subtotal 750 (3 x 250), got %v", crt.Subtotal)
	}
}

func TestAddItem_SnapshotsCatalogPrice(t *testing.T) {
	repo := NewInMemoryRepository(map[int][]Line{7: {}})
	catalog := &fakeCatalog{products: map[int]product.Product{
		1: {ID: 1, Name: "Croissant", Price: 120},
	}}
	s := NewService(repo, catalog)

	if _, err := s.AddItem(7, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	// catalog price change must not affect the existing line
	catalog.products[1] = product.Product{ID: 1, Name: "Croissant", Price: 999}

	crt, err := s.Get(7)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if crt.Lines[0].UnitPrice != 120 {
		t.Fatalf("expected snapshotted price 120, got %v", crt.Lines[0].UnitPrice)
	}
}

func TestClear_EmptiesAllLines(t *testing.T) {
	s := newTestService(7)
	s.AddItem(7, 1)
	s.AddItem(7, 2)

	if err := s.Clear(7); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	crt, _ := s.Get(7)
	if len(crt.Lines) != 0 || crt.Subtotal != 0 || crt.ItemCount != 0 {
		t.Fatalf("expected empty cart after clear, got %+v", crt)
	}
}
