package persist

import (
	"strings"
	"testing"
)

func newTestSQLStore(dialect SQLDialect) *SQLStore {
	// No db handle needed for query-generation tests; the cleanup loop is
	// not started.
	return &SQLStore{
		tableName: "reval_snapshots",
		dialect:   dialect,
		done:      make(chan struct{}),
	}
}

func TestSQLStorePlaceholders(t *testing.T) {
	if got := newTestSQLStore(DialectPostgreSQL).placeholder(2); got != "$2" {
		t.Errorf("postgres placeholder = %q, want $2", got)
	}
	if got := newTestSQLStore(DialectMySQL).placeholder(1); got != "?" {
		t.Errorf("mysql placeholder = %q, want ?", got)
	}
	if got := newTestSQLStore(DialectSQLite).placeholder(1); got != "?" {
		t.Errorf("sqlite placeholder = %q, want ?", got)
	}
}

func TestSQLStoreSaveQuery(t *testing.T) {
	cases := []struct {
		dialect SQLDialect
		want    string
	}{
		{DialectPostgreSQL, "ON CONFLICT (id) DO UPDATE"},
		{DialectMySQL, "ON DUPLICATE KEY UPDATE"},
		{DialectSQLite, "INSERT OR REPLACE"},
	}
	for _, tc := range cases {
		query := newTestSQLStore(tc.dialect).saveQuery()
		if !strings.Contains(query, tc.want) {
			t.Errorf("dialect %d save query missing %q:\n%s", tc.dialect, tc.want, query)
		}
		if !strings.Contains(query, "reval_snapshots") {
			t.Errorf("dialect %d save query missing table name", tc.dialect)
		}
	}
}

func TestSQLStoreLoadQueryHandlesNullExpiry(t *testing.T) {
	for _, dialect := range []SQLDialect{DialectPostgreSQL, DialectMySQL, DialectSQLite} {
		query := newTestSQLStore(dialect).loadQuery()
		if !strings.Contains(query, "expires_at IS NULL OR") {
			t.Errorf("dialect %d load query must allow never-expiring rows:\n%s", dialect, query)
		}
	}
}

func TestSQLStoreCustomTableName(t *testing.T) {
	store := &SQLStore{tableName: "custom_table", dialect: DialectPostgreSQL}
	if !strings.Contains(store.saveQuery(), "custom_table") {
		t.Error("save query should use custom table name")
	}
	if !strings.Contains(store.loadQuery(), "custom_table") {
		t.Error("load query should use custom table name")
	}
}
