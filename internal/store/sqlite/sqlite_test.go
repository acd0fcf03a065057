package sqlite

import (
	"testing"

	"github.com/tourkita/admin-backend/internal/store"
	"github.com/tourkita/admin-backend/internal/store/storetest"
)

func makeSQLiteStore(t *testing.T) store.Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("sqlite open: %v", err)
	}
	return s
}

func TestSQLiteStore_Compliance(t *testing.T) {
	storetest.Run(t, makeSQLiteStore)
}
