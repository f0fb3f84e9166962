package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/assetmanage/assetmanage-backend/pkg/migrate"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %q", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestAssetsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_assets.sql")

	checks := []string{
		"CREATE TABLE assets",
		"CHECK (product_quantity >= 0)",
		"CHECK (product_type IN ('Returnable', 'Non-Returnable'))",
		"DROP TABLE assets",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestAssetRequestsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_asset_requests.sql")

	checks := []string{
		"CREATE TABLE asset_requests",
		"REFERENCES assets (id)",
		"CHECK (status IN ('Pending', 'Approved', 'Rejected', 'Returned', 'Cancelled'))",
		"DROP TABLE asset_requests",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}
