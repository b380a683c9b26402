package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// CreateMigration writes an empty up/down migration pair named after the
// current timestamp.
func CreateMigration(dir, name string) (string, string, error) {
	name = strings.TrimSpace(strings.ReplaceAll(name, " ", "_"))
	if name == "" {
		return "", "", fmt.Errorf("migration name is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating migrations dir: %w", err)
	}

	version := time.Now().UTC().Format("20060102150405")
	upPath := filepath.Join(dir, fmt.Sprintf("%s_%s.up.sql", version, name))
	downPath := filepath.Join(dir, fmt.Sprintf("%s_%s.down.sql", version, name))

	for _, p := range []string{upPath, downPath} {
		if err := os.WriteFile(p, []byte("-- "+name+"\n"), 0o644); err != nil {
			return "", "", fmt.Errorf("writing %s: %w", p, err)
		}
	}
	return upPath, downPath, nil
}

// ListMigrations returns the migration files in version order.
func ListMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}
