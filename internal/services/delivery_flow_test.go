package services_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"greengrocer/internal/domain"
	"greengrocer/internal/repos"
	"greengrocer/internal/services"
)

func placeOrder(t *testing.T, f fixture, sid, uid string) *domain.Order {
	t.Helper()
	if _, err := f.cart.Add(sid, uid, "tomato", 4); err != nil {
		t.Fatal(err)
	}
	o, err := f.order.Place(sid, uid, time.Now().Add(4*time.Hour), "Ayse", testAddress, testPhone)
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func TestDeliveryFlow(t *testing.T) {
	db, f := newFixture(t)
	delivery := services.NewDeliveryService(repos.NewOrderRepo(db))

	o := placeOrder(t, f, "sess-1", "u-1")

	available, err := delivery.Available()
	if err != nil {
		t.Fatal(err)
	}
	if len(available) != 1 || available[0].ID != o.ID {
		t.Fatalf("want the new order on the board, got %+v", available)
	}

	if err := delivery.Accept(o.ID, "c-1"); err != nil {
		t.Fatal(err)
	}
	// the loser of the race gets a typed rejection
	if err := delivery.Accept(o.ID, "c-2"); !errors.Is(err, domain.ErrAlreadyAssigned) {
		t.Fatalf("want ErrAlreadyAssigned, got %v", err)
	}

	// only the assigned carrier may move the order
	if err := delivery.Start(o.ID, "c-2"); !errors.Is(err, domain.ErrNotAssignedToYou) {
		t.Fatalf("want ErrNotAssignedToYou, got %v", err)
	}
	if err := delivery.Start(o.ID, "c-1"); err != nil {
		t.Fatal(err)
	}

	done, err := delivery.Complete(o.ID, "c-1")
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != domain.StatusCompleted || !done.OnTime() {
		t.Fatalf("want on-time COMPLETED, got %+v", done)
	}

	stats, err := delivery.Stats("c-1")
	if err != nil {
		t.Fatal(err)
	}
	if stats.Delivered != 1 || stats.OnTime != 1 || stats.OnTimePct != 100 {
		t.Fatalf("bad stats: %+v", stats)
	}
	if stats.Revenue != done.Total {
		t.Fatalf("want revenue %v, got %v", done.Total, stats.Revenue)
	}
}

func TestDeliveryFlow_ConcurrencyCap(t *testing.T) {
	db, f := newFixture(t)
	delivery := services.NewDeliveryService(repos.NewOrderRepo(db))

	for i := 0; i < services.MaxConcurrentDeliveries+1; i++ {
		o := placeOrder(t, f, fmt.Sprintf("sess-%d", i), "u-1")
		err := delivery.Accept(o.ID, "c-1")
		if i < services.MaxConcurrentDeliveries {
			if err != nil {
				t.Fatalf("accept %d: %v", i, err)
			}
			continue
		}
		if !errors.Is(err, domain.ErrCarrierBusy) {
			t.Fatalf("want ErrCarrierBusy on accept %d, got %v", i, err)
		}
	}

	// completing one frees a slot
	current, err := delivery.Current("c-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := delivery.Complete(current[0].ID, "c-1"); err != nil {
		t.Fatal(err)
	}
	remaining, err := delivery.Available()
	if err != nil {
		t.Fatal(err)
	}
	if err := delivery.Accept(remaining[0].ID, "c-1"); err != nil {
		t.Fatalf("freed slot must allow another accept, got %v", err)
	}
}

func TestDeliveryFlow_CompleteFromSelected(t *testing.T) {
	db, f := newFixture(t)
	delivery := services.NewDeliveryService(repos.NewOrderRepo(db))

	o := placeOrder(t, f, "sess-1", "u-1")
	if err := delivery.Accept(o.ID, "c-1"); err != nil {
		t.Fatal(err)
	}
	// no pickup step; completion straight from SELECTED
	done, err := delivery.Complete(o.ID, "c-1")
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != domain.StatusCompleted {
		t.Fatalf("want COMPLETED, got %s", done.Status)
	}
}

func TestDeliveryFlow_CancelledOrderNotAcceptable(t *testing.T) {
	db, f := newFixture(t)
	delivery := services.NewDeliveryService(repos.NewOrderRepo(db))

	o := placeOrder(t, f, "sess-1", "u-1")
	if err := f.order.Cancel(o.ID, "u-1"); err != nil {
		t.Fatal(err)
	}
	if err := delivery.Accept(o.ID, "c-1"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}
}

func TestDeliveryFlow_Urgent(t *testing.T) {
	db, f := newFixture(t)
	delivery := services.NewDeliveryService(repos.NewOrderRepo(db))

	// due in 1 hour: urgent
	if _, err := f.cart.Add("sess-1", "u-1", "tomato", 4); err != nil {
		t.Fatal(err)
	}
	soon, err := f.order.Place("sess-1", "u-1", time.Now().Add(time.Hour), "Ayse", testAddress, testPhone)
	if err != nil {
		t.Fatal(err)
	}
	// due tomorrow: not urgent
	if _, err := f.cart.Add("sess-2", "u-2", "tomato", 4); err != nil {
		t.Fatal(err)
	}
	if _, err := f.order.Place("sess-2", "u-2", time.Now().Add(24*time.Hour), "Ayse", testAddress, testPhone); err != nil {
		t.Fatal(err)
	}

	urgent, err := delivery.Urgent()
	if err != nil {
		t.Fatal(err)
	}
	if len(urgent) != 1 || urgent[0].ID != soon.ID {
		t.Fatalf("want only the soon order, got %+v", urgent)
	}
}
