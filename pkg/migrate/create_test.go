package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Discount Stacking!")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	base := filepath.Base(path)
	if !strings.HasSuffix(base, "_add_discount_stacking.sql") {
		t.Fatalf("unexpected filename %q", base)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, marker := range []string{"+goose Up", "+goose Down", "+goose StatementBegin"} {
		if !strings.Contains(string(content), marker) {
			t.Fatalf("skeleton missing %q", marker)
		}
	}

	// Same name in the same second must not overwrite the first file.
	if _, err := CreateSQLMigration(dir, "Add Discount Stacking!"); err == nil {
		t.Fatal("expected collision error")
	}
}

func TestCreateSQLMigrationRejectsEmptyName(t *testing.T) {
	if _, err := CreateSQLMigration(t.TempDir(), "  !!  "); err == nil {
		t.Fatal("expected sanitize error")
	}
	if _, err := CreateSQLMigration("", "ok"); err == nil {
		t.Fatal("expected dir error")
	}
}
