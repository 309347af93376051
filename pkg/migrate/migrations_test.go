package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMigrationsDirValidates(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir invalid: %v", err)
	}
}

func TestMigrationsCoverCoreTables(t *testing.T) {
	entries, err := os.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}

	var combined strings.Builder
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		b, err := os.ReadFile(filepath.Join("migrations", e.Name()))
		if err != nil {
			t.Fatalf("read %s: %v", e.Name(), err)
		}
		combined.Write(b)
	}

	sql := combined.String()
	for _, table := range []string{
		"CREATE TABLE users",
		"CREATE TABLE student_profiles",
		"CREATE TABLE teacher_profiles",
		"CREATE TABLE parent_profiles",
		"CREATE TABLE activity_logs",
		"CREATE TABLE activity_log_dlq",
	} {
		if !strings.Contains(sql, table) {
			t.Fatalf("missing statement %q", table)
		}
	}
	if !strings.Contains(sql, "CONSTRAINT users_email_key UNIQUE (email)") {
		t.Fatalf("users.email must carry a named unique constraint")
	}
	if !strings.Contains(sql, "CONSTRAINT student_profiles_student_number_key UNIQUE (student_number)") {
		t.Fatalf("student number must carry a named unique constraint")
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Report Cards!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	base := filepath.Base(path)
	if !strings.HasSuffix(base, "_add_report_cards.sql") {
		t.Fatalf("unexpected filename %s", base)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}
}
