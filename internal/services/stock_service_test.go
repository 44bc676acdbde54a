package services_test

import (
	"errors"
	"testing"

	"greengrocer/internal/domain"
	"greengrocer/internal/repos"
	"greengrocer/internal/services"
)

// memdb seeds: tomato 120/20 (NORMAL), spinach 12/10 (LOW),
// apple 10/3 (NORMAL), banana 3/2 (LOW).

func TestStockService_AddAndReduce(t *testing.T) {
	db := memdb(t)
	svc := services.NewStockService(repos.NewProductRepo(db))

	alert, err := svc.ReduceStock("spinach", 4)
	if err != nil {
		t.Fatal(err)
	}
	if alert.Level != domain.AlertVeryLow {
		t.Fatalf("want VERY_LOW at 8/10, got %s", alert.Level)
	}

	// over-reduction fails and leaves the row untouched
	if _, err := svc.ReduceStock("spinach", 100); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock, got %v", err)
	}
	p, err := repos.NewProductRepo(db).Get("spinach")
	if err != nil {
		t.Fatal(err)
	}
	if p.Stock != 8 {
		t.Fatalf("want stock 8, got %v", p.Stock)
	}

	alert, err = svc.AddStock("spinach", 40)
	if err != nil {
		t.Fatal(err)
	}
	if alert.Level != domain.AlertNormal {
		t.Fatalf("want NORMAL at 48/10, got %s", alert.Level)
	}
}

func TestStockService_Alerts(t *testing.T) {
	db := memdb(t)
	svc := services.NewStockService(repos.NewProductRepo(db))

	// drain the banana shelf
	if _, err := svc.ReduceStock("banana", 3); err != nil {
		t.Fatal(err)
	}

	alerts, err := svc.Alerts()
	if err != nil {
		t.Fatal(err)
	}
	// CRITICAL banana first, LOW spinach after; NORMAL rows excluded
	if len(alerts) != 2 {
		t.Fatalf("want 2 alerts, got %+v", alerts)
	}
	if alerts[0].Product.ID != "banana" || alerts[0].Level != domain.AlertCritical {
		t.Fatalf("want CRITICAL banana first, got %+v", alerts[0])
	}
	if alerts[1].Product.ID != "spinach" || alerts[1].Level != domain.AlertLow {
		t.Fatalf("want LOW spinach second, got %+v", alerts[1])
	}
}

func TestStockService_RestockSuggestions(t *testing.T) {
	db := memdb(t)
	svc := services.NewStockService(repos.NewProductRepo(db))

	suggestions, err := svc.RestockSuggestions()
	if err != nil {
		t.Fatal(err)
	}
	// spinach 12/10 and banana 3/2 need attention
	if len(suggestions) != 2 {
		t.Fatalf("want 2 suggestions, got %+v", suggestions)
	}
	for _, s := range suggestions {
		switch s.Product.ID {
		case "spinach":
			if s.AmountKg != 50 { // 3*10=30, floored to 50
				t.Fatalf("spinach: want 50, got %v", s.AmountKg)
			}
		case "banana":
			if s.AmountKg != 50 { // 3*2=6, floored to 50
				t.Fatalf("banana: want 50, got %v", s.AmountKg)
			}
		default:
			t.Fatalf("unexpected suggestion for %s", s.Product.ID)
		}
	}
}

func TestStockService_Threshold(t *testing.T) {
	db := memdb(t)
	svc := services.NewStockService(repos.NewProductRepo(db))

	if err := svc.UpdateThreshold("tomato", 0); !errors.Is(err, domain.ErrBadThreshold) {
		t.Fatalf("want ErrBadThreshold, got %v", err)
	}
	if err := svc.UpdateThreshold("tomato", 100); err != nil {
		t.Fatal(err)
	}

	// 120 is above the new threshold but inside 1.5x of it: LOW, not doubled
	doubled, err := svc.ThresholdActive()
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range doubled {
		if p.ID == "tomato" {
			t.Fatal("tomato is above its threshold, price must not double")
		}
	}
	low, err := svc.LowStock()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, p := range low {
		if p.ID == "tomato" {
			found = true
		}
	}
	if !found {
		t.Fatalf("tomato must be in the low-stock list, got %+v", low)
	}
}

func TestCatalogService_CreateAndDeactivate(t *testing.T) {
	db := memdb(t)
	svc := services.NewCatalogService(repos.NewProductRepo(db))

	if _, err := svc.Create("", "fruit", 10, 5, 2, ""); !errors.Is(err, domain.ErrBadProductName) {
		t.Fatalf("want ErrBadProductName, got %v", err)
	}
	if _, err := svc.Create("Cherry", "candy", 10, 5, 2, ""); !errors.Is(err, domain.ErrBadCategory) {
		t.Fatalf("want ErrBadCategory, got %v", err)
	}
	if _, err := svc.Create("Cherry", "fruit", -1, 5, 2, ""); !errors.Is(err, domain.ErrBadPrice) {
		t.Fatalf("want ErrBadPrice, got %v", err)
	}

	p, err := svc.Create("Cherry", "fruit", 55, 5, 2, "")
	if err != nil {
		t.Fatal(err)
	}

	listed, err := svc.List("fruit", "")
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, v := range listed {
		if v.ID == p.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("new product missing from the catalog: %+v", listed)
	}

	if err := svc.Deactivate(p.ID); err != nil {
		t.Fatal(err)
	}
	listed, err = svc.List("fruit", "")
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range listed {
		if v.ID == p.ID {
			t.Fatal("deactivated product must not be listed")
		}
	}
}
