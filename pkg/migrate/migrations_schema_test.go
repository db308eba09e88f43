package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eventmartlabs/eventmart-backend/pkg/migrate"
)

func TestInitMigrationContainsSchemas(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_init_schema.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no init schema migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE accounts",
		"CREATE TABLE vendors",
		"CREATE TABLE products",
		"CREATE TABLE orders",
		"CREATE TABLE order_line_items",
		"CREATE UNIQUE INDEX idx_accounts_email",
		"CREATE UNIQUE INDEX idx_vendors_account_id",
		"CREATE INDEX idx_orders_buyer_created",
		"CREATE INDEX idx_orders_vendor_created",
		"REFERENCES vendors (id) ON DELETE CASCADE",
		"REFERENCES accounts (id) ON DELETE RESTRICT",
		"REFERENCES vendors (id) ON DELETE RESTRICT",
		"REFERENCES products (id) ON DELETE SET NULL",
		"CHECK (quantity > 0)",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}
