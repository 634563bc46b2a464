package order

import (
	"errors"
	"testing"
)

func testPricing() PricingPolicy {
	return PricingPolicy{TaxRate: 0.05, ShippingFee: 40, FreeShippingAbove: 500}
}

func sampleItems() []Item {
	return []Item{
		{ProductID: 3, Name: "Sourdough Loaf", UnitPrice: 180, Quantity: 1},
		{ProductID: 8, Name: "Almond Croissant", UnitPrice: 95, Quantity: 2},
	}
}

func sampleInput() SubmitInput {
	return SubmitInput{
		Contact:       Contact{Name: "Asha Rao", Email: "asha@example.com", Phone: "9876543210"},
		Shipping:      ShippingAddress{Street: "12 Baker Lane", City: "Pune", State: "MH", Pincode: "411001"},
		PaymentMethod: "online",
	}
}

func TestQuote_AppliesTaxAndShipping(t *testing.T) {
	p := testPricing()

	tax, shipping, total := p.Quote(370)
	if tax != 18.5 {
		t.Fatalf("tax: expected 18.5, got %v", tax)
	}
	if shipping != 40 {
		t.Fatalf("shipping: expected 40, got %v", shipping)
	}
	if total != 428.5 {
		t.Fatalf("total: expected 428.5, got %v", total)
	}
}

func TestQuote_WaivesShippingAboveThreshold(t *testing.T) {
	p := testPricing()

	_, shipping, total := p.Quote(600)
	if shipping != 0 {
		t.Fatalf("expected free shipping, got %v", shipping)
	}
	if total != 630 {
		t.Fatalf("total: expected 630, got %v", total)
	}
}

func TestSubmit_ComputesPriceBreakdown(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil), testPricing())

	ord, err := svc.Submit(1, sampleItems(), sampleInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// 180 + 2*95 = 370 items, 5% tax, flat 40 shipping
	if ord.ItemsPrice != 370 {
		t.Fatalf("items price: expected 370, got %v", ord.ItemsPrice)
	}
	if ord.TaxPrice != 18.5 || ord.ShippingPrice != 40 || ord.TotalPrice != 428.5 {
		t.Fatalf("breakdown wrong: %+v", ord)
	}
	if ord.PaymentStatus != PaymentPending || ord.Status != StatusPending {
		t.Fatalf("expected pending/pending, got %q/%q", ord.PaymentStatus, ord.Status)
	}
	if ord.Reference == "" {
		t.Fatal("missing order reference")
	}
}

func TestSubmit_RejectsEmptyItems(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil), testPricing())

	if _, err := svc.Submit(1, nil, sampleInput()); !errors.Is(err, ErrEmptyOrder) {
		t.Fatalf("expected ErrEmptyOrder, got %v", err)
	}
}

func TestSubmit_DistinctReferences(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil), testPricing())

	a, err := svc.Submit(1, sampleItems(), sampleInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	b, err := svc.Submit(1, sampleItems(), sampleInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if a.Reference == b.Reference {
		t.Fatalf("two orders share reference %q", a.Reference)
	}
	if a.ID == b.ID {
		t.Fatalf("two orders share id %d", a.ID)
	}
}

func TestUpdateStatus_RejectsUnknownState(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil), testPricing())
	ord, _ := svc.Submit(1, sampleItems(), sampleInput())

	if _, err := svc.UpdateStatus(ord.ID, Status("shipped-to-mars")); !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}

	updated, err := svc.UpdateStatus(ord.ID, StatusPreparing)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != StatusPreparing {
		t.Fatalf("expected preparing, got %q", updated.Status)
	}
}

func TestFallbackToCOD(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil), testPricing())
	ord, _ := svc.Submit(1, sampleItems(), sampleInput())

	updated, err := svc.FallbackToCOD(ord.ID)
	if err != nil {
		t.Fatalf("fallback: %v", err)
	}
	if updated.PaymentMethod != "cod" {
		t.Fatalf("expected cod, got %q", updated.PaymentMethod)
	}
}
