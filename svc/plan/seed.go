package plan

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// seedFile is the on-disk shape of the plan seed document.
type seedFile struct {
	Plans []seedPlan `yaml:"plans"`
}

type seedPlan struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Price        float64  `yaml:"price"`
	Currency     string   `yaml:"currency"`
	BillingCycle string   `yaml:"billingCycle"`
	Features     []string `yaml:"features"`
	MaxUsers     *int     `yaml:"maxUsers"`
}

// SeedFromFile loads plans from a YAML file into an empty catalog. A
// non-empty catalog is left untouched so redeployments do not clobber
// admin edits. A missing file is not an error.
func SeedFromFile(ctx context.Context, store Store, path string, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read plan seed %s: %w", path, err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count plans: %w", err)
	}
	if count > 0 {
		return nil
	}

	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("parse plan seed %s: %w", path, err)
	}

	now := time.Now().UTC()
	for _, sp := range seed.Plans {
		cycle := BillingCycle(sp.BillingCycle)
		if !cycle.Valid() {
			return fmt.Errorf("plan seed %s: plan %q: %w", path, sp.Name, ErrInvalidCycle)
		}
		if sp.Price < 0 {
			return fmt.Errorf("plan seed %s: plan %q: %w", path, sp.Name, ErrNegativePrice)
		}

		id := sp.ID
		if id == "" {
			id = uuid.New().String()
		}

		p := &Plan{
			ID:           id,
			Name:         sp.Name,
			Description:  sp.Description,
			Price:        sp.Price,
			Currency:     sp.Currency,
			BillingCycle: cycle,
			Features:     sp.Features,
			MaxUsers:     sp.MaxUsers,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if p.Features == nil {
			p.Features = []string{}
		}

		if err := store.Create(ctx, p); err != nil {
			return fmt.Errorf("seed plan %q: %w", sp.Name, err)
		}
	}

	log.InfoContext(ctx, "plan catalog seeded", slog.Int("plans", len(seed.Plans)))
	return nil
}
