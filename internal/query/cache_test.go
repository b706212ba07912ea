// ABOUTME: Tests for the TTL cache backing the query runner

package query

import (
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("tickets?", []string{"a", "b"})

	val, ok := c.Get("tickets?")
	if !ok {
		t.Fatal("expected cache hit")
	}
	got := val.([]string)
	if len(got) != 2 || got[0] != "a" {
		t.Errorf("unexpected cached value: %v", got)
	}
}

func TestCache_MissWhenAbsent(t *testing.T) {
	c := NewCache(time.Minute)
	if _, ok := c.Get("nothing?"); ok {
		t.Error("expected miss for absent key")
	}
}

func TestCache_ExpiresAfterTTL(t *testing.T) {
	c := NewCache(10 * time.Millisecond)
	c.Set("tickets?", "data")

	if _, ok := c.Get("tickets?"); !ok {
		t.Fatal("expected hit before expiry")
	}
	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("tickets?"); ok {
		t.Error("expected miss after TTL elapsed")
	}
}

func TestCache_Clear(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("tickets?", "data")
	c.Clear("tickets?")
	if _, ok := c.Get("tickets?"); ok {
		t.Error("expected miss after clear")
	}
}

func TestCache_ClearPrefix(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("tickets?status=OPEN", 1)
	c.Set("tickets?status=CLOSED", 2)
	c.Set("ticket-comments?ticketId=5", 3)

	c.ClearPrefix("tickets?")

	if _, ok := c.Get("tickets?status=OPEN"); ok {
		t.Error("expected tickets entries cleared")
	}
	if _, ok := c.Get("tickets?status=CLOSED"); ok {
		t.Error("expected tickets entries cleared")
	}
	if _, ok := c.Get("ticket-comments?ticketId=5"); !ok {
		t.Error("expected comment entries to survive: prefix must not span resources")
	}
}
