// Package seed loads start-up fixtures from YAML and applies them through
// the application services.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

type Fixtures struct {
	Users []models.UserCreate `yaml:"users"`
	Items []ItemFixture       `yaml:"items"`
}

// ItemFixture is an item listed by the user with the Owner email.
type ItemFixture struct {
	Owner             string `yaml:"owner"`
	models.ItemCreate `yaml:",inline"`
}

type UserService interface {
	Create(ctx context.Context, in models.UserCreate) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type ItemService interface {
	Create(ctx context.Context, ownerID int64, in models.ItemCreate) (*models.Item, error)
	ListOwned(ctx context.Context, ownerID int64, page models.Page) ([]models.ItemDetails, error)
}

func Load(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

// Apply creates the fixtures. Users already registered under the same
// email and items their owner already lists under the same name are
// skipped, so applying twice is harmless.
func Apply(ctx context.Context, f *Fixtures, users UserService, items ItemService, logger *zerolog.Logger) error {
	existing, err := users.List(ctx)
	if err != nil {
		return err
	}
	byEmail := make(map[string]int64, len(existing)+len(f.Users))
	for _, u := range existing {
		byEmail[strings.ToLower(u.Email)] = u.ID
	}

	created := 0
	for _, in := range f.Users {
		if _, ok := byEmail[strings.ToLower(in.Email)]; ok {
			continue
		}
		u, err := users.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", in.Email, err)
		}
		byEmail[strings.ToLower(u.Email)] = u.ID
		created++
	}

	listed := 0
	for _, it := range f.Items {
		ownerID, ok := byEmail[strings.ToLower(it.Owner)]
		if !ok {
			return fmt.Errorf("seed item %s: %w", it.Name, domain.Invalid(errors.New("unknown owner "+it.Owner)))
		}
		owned, err := items.ListOwned(ctx, ownerID, models.Unpaged())
		if err != nil {
			return err
		}
		if hasItem(owned, it.Name) {
			continue
		}
		if _, err := items.Create(ctx, ownerID, it.ItemCreate); err != nil {
			return fmt.Errorf("seed item %s: %w", it.Name, err)
		}
		listed++
	}

	logger.Info().Int("users", created).Int("items", listed).Msg("seed applied")
	return nil
}

func hasItem(owned []models.ItemDetails, name string) bool {
	for _, d := range owned {
		if d.Name == name {
			return true
		}
	}
	return false
}
