package repository

import (
	"strings"
	"testing"
)

func TestInsertAwardQueryIsIdempotentPerBooking(t *testing.T) {
	query := strings.ToLower(insertAwardQuery)

	for _, fragment := range []string{
		"'award'",
		"on conflict (booking_id) where kind = 'award' do nothing",
	} {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected award insert fragment %q", fragment)
		}
	}
}

func TestLockBalanceQueryTakesRowLock(t *testing.T) {
	if !strings.Contains(strings.ToLower(lockBalanceQuery), "for update") {
		t.Fatal("balance lock query must use FOR UPDATE")
	}
}

func TestListHistoryQueryIsUserScoped(t *testing.T) {
	query := strings.ToLower(listHistoryQuery)
	if !strings.Contains(query, "where h.user_id = $1") {
		t.Fatal("history query must filter on the owning user")
	}
	if !strings.Contains(query, "order by h.created_at desc") {
		t.Fatal("history must be newest first")
	}
}
