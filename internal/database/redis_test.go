package database

import (
	"strings"
	"testing"
)

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient("not-a-redis-url")
	if err == nil {
		t.Fatal("expected error for invalid URL")
	}
	if !strings.Contains(err.Error(), "parse Redis URL") {
		t.Errorf("unexpected error %v", err)
	}
}
