package storage

import "testing"

func TestMigrationFilesAreEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}

	found := map[string]bool{}
	for _, e := range entries {
		found[e.Name()] = true
	}

	// Every up migration needs a matching down migration
	for _, name := range []string{
		"000001_create_users.up.sql",
		"000001_create_users.down.sql",
		"000002_create_meals.up.sql",
		"000002_create_meals.down.sql",
	} {
		if !found[name] {
			t.Errorf("missing embedded migration %s", name)
		}
	}
}
