package migrate

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// migrationFileName captures the version and slug of a migration file.
var migrationFileName = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)

// ValidateDir checks every .sql file in dir: the name must be
// <14 digit version>_<slug>.sql with a unique version, and the body must hold
// an Up section before a Down section with balanced statement blocks.
func ValidateDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("migration dir is required")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read migration dir %q: %w", dir, err)
	}

	versions := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".sql" {
			continue
		}
		m := migrationFileName.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("migration %q: name must match YYYYMMDDHHMMSS_name.sql", name)
		}
		if prev, dup := versions[m[1]]; dup {
			return fmt.Errorf("migration version %s used by both %q and %q", m[1], prev, name)
		}
		versions[m[1]] = name

		body, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read migration %q: %w", name, err)
		}
		if err := validateBody(body); err != nil {
			return fmt.Errorf("migration %q: %w", name, err)
		}
	}
	return nil
}

func validateBody(body []byte) error {
	var (
		upLine, downLine int
		open             int
		line             int
	)
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		line++
		switch strings.TrimSpace(scanner.Text()) {
		case "-- +goose Up":
			upLine = line
		case "-- +goose Down":
			downLine = line
		case "-- +goose StatementBegin":
			if open > 0 {
				return fmt.Errorf("line %d: nested StatementBegin", line)
			}
			open++
		case "-- +goose StatementEnd":
			if open == 0 {
				return fmt.Errorf("line %d: StatementEnd without StatementBegin", line)
			}
			open--
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	switch {
	case upLine == 0:
		return errors.New(`missing "-- +goose Up"`)
	case downLine == 0:
		return errors.New(`missing "-- +goose Down"`)
	case downLine < upLine:
		return errors.New("down section precedes up section")
	case open != 0:
		return errors.New("unterminated StatementBegin")
	}
	return nil
}
