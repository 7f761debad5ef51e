// Package catalog seeds the item table from a YAML file at bootstrap.
package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"gopkg.in/yaml.v3"

	"github.com/m3rciful/burgerbot/core/logger"
	"log/slog"
)

// SeedItem is one catalog entry in the seed file.
type SeedItem struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       int64  `yaml:"price"`
}

type seedFile struct {
	Items []SeedItem `yaml:"items"`
}

// Seeder inserts catalog items that are not present yet, matched by name.
// Existing rows are never updated; pricing changes go through migrations.
type Seeder struct {
	Path string
}

// Seed implements the bootstrap seeder hook.
func (s Seeder) Seed(ctx context.Context, db *sqlx.DB) error {
	if s.Path == "" {
		logger.Debug(ctx, "db.seed", "seed.skip", slog.String("reason", "no_file"))
		return nil
	}

	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return fmt.Errorf("catalog seed: read %s: %w", s.Path, err)
	}
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("catalog seed: parse %s: %w", s.Path, err)
	}

	inserted := 0
	for _, item := range file.Items {
		if item.Name == "" || item.Price <= 0 {
			return fmt.Errorf("catalog seed: invalid item %q (price %d)", item.Name, item.Price)
		}
		res, err := db.ExecContext(ctx,
			`INSERT INTO items (name, description, price)
			 SELECT $1, $2, $3
			 WHERE NOT EXISTS (SELECT 1 FROM items WHERE name = $1)`,
			item.Name, item.Description, item.Price)
		if err != nil {
			return fmt.Errorf("catalog seed: insert %q: %w", item.Name, err)
		}
		n, err := res.RowsAffected()
		if err == nil {
			inserted += int(n)
		}
	}

	logger.Info(ctx, "db.seed", "seed.complete",
		slog.String("file", s.Path),
		slog.Int("declared", len(file.Items)),
		slog.Int("inserted", inserted),
	)
	return nil
}
