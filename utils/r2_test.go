package utils

import (
	"strings"
	"testing"
	"time"
)

func TestArchiveKey(t *testing.T) {
	at := time.Date(2024, 3, 5, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		name string
		typ  string
		code string
		want string
	}{
		{"item error", "ITEM", "ERROR", "webhooks/2024-03-05/item-error/abc.json"},
		{"spaces and case", "Transactions", "Sync Available", "webhooks/2024-03-05/transactions-sync-available/abc.json"},
		{"empty", "", "", "webhooks/2024-03-05/unknown/abc.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ArchiveKey(at, tt.typ, tt.code, "abc"); got != tt.want {
				t.Errorf("ArchiveKey = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestArchiveKeyUsesURLSafeSegment(t *testing.T) {
	key := ArchiveKey(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), "TRANSACTIONS", "DEFAULT_UPDATE", "id-1")

	if !strings.HasPrefix(key, "webhooks/2024-03-05/transactions-default") {
		t.Errorf("key = %q", key)
	}
	if !strings.HasSuffix(key, "/id-1.json") {
		t.Errorf("key = %q", key)
	}
	if strings.ContainsAny(key, " ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		t.Errorf("key %q is not lowercase and URL safe", key)
	}
}
