package redis

import (
	"context"
	"testing"
	"time"

	"pqr-portal/db"
)

func TestSessionStorage_SetGetRemove(t *testing.T) {
	mockClient := db.NewMockRedisClient(context.Background())
	dao := NewRedisSessionDAO(mockClient, time.Hour)
	storage := dao.Scope("abc")

	if err := storage.SetItem("nodeToReport", "42"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	raw, err := mockClient.Get("pqr_session_v1:abc:nodeToReport")
	if err != nil || raw != "42" {
		t.Fatalf("Expected raw key to hold 42, got %q (%v)", raw, err)
	}

	val, ok, err := storage.GetItem("nodeToReport")
	if err != nil || !ok || val != "42" {
		t.Errorf("Expected (42, true, nil), got (%q, %v, %v)", val, ok, err)
	}

	if err := storage.RemoveItem("nodeToReport"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	_, ok, err = storage.GetItem("nodeToReport")
	if err != nil || ok {
		t.Errorf("Expected missing item after remove, got ok=%v err=%v", ok, err)
	}
}

func TestSessionStorage_ScopesAreIsolated(t *testing.T) {
	dao := NewRedisSessionDAO(db.NewMockRedisClient(context.Background()), time.Hour)

	dao.Scope("a").SetItem("nodeToReport", "1")
	dao.Scope("b").SetItem("nodeToReport", "2")

	val, _, _ := dao.Scope("a").GetItem("nodeToReport")
	if val != "1" {
		t.Errorf("Expected session a to keep 1, got %q", val)
	}
}

func TestRedisSessionDAO_ListAndDelete(t *testing.T) {
	dao := NewRedisSessionDAO(db.NewMockRedisClient(context.Background()), time.Hour)
	dao.Scope("a").SetItem("nodeToReport", "1")
	dao.Scope("a").SetItem("other", "x")
	dao.Scope("b").SetItem("nodeToReport", "2")

	ids, err := dao.ListSessionIDs()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("Expected 2 sessions, got %v", ids)
	}

	if err := dao.DeleteSession("a"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	ids, _ = dao.ListSessionIDs()
	if len(ids) != 1 || ids[0] != "b" {
		t.Errorf("Expected only session b, got %v", ids)
	}
}

func TestSessionStorage_ReadsExtendTTL(t *testing.T) {
	mockClient := db.NewMockRedisClient(context.Background())
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	mockClient.SetClock(func() time.Time { return now })
	storage := NewRedisSessionDAO(mockClient, time.Hour).Scope("abc")

	if err := storage.SetItem("nodeToReport", "42"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for i := 0; i < 7; i++ {
		now = now.Add(10 * time.Minute)
		if _, ok, err := storage.GetItem("nodeToReport"); err != nil || !ok {
			t.Fatalf("Expected item alive after %d reads, got ok=%v err=%v", i+1, ok, err)
		}
	}

	now = now.Add(61 * time.Minute)
	if _, ok, _ := storage.GetItem("nodeToReport"); ok {
		t.Errorf("Expected item to expire after an idle ttl")
	}
}

func TestSessionStorage_TouchMissingItem(t *testing.T) {
	storage := NewRedisSessionDAO(db.NewMockRedisClient(context.Background()), time.Hour).Scope("abc")

	if err := storage.Touch("nodeToReport"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, ok, _ := storage.GetItem("nodeToReport"); ok {
		t.Errorf("Expected touch not to create the item")
	}
}
