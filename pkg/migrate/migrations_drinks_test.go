package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDrinksMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_drinks.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no drinks migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS drinks",
		"FOREIGN KEY (bar_id) REFERENCES bars(id) ON DELETE CASCADE",
		"CHECK (base_price > 0)",
		"CHECK (current_price > 0)",
		"CHECK (total_sold >= 0)",
		"CREATE INDEX IF NOT EXISTS idx_drinks_bar_id",
		"DROP TABLE IF EXISTS drinks",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
