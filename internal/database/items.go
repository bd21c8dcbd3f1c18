package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/models"
)

const itemColumns = `id, name, description, available, owner_id, request_id`

func (s *Store) CreateItem(ctx context.Context, it *models.Item) error {
	query := `INSERT INTO items (name, description, available, owner_id, request_id)
		VALUES (?, ?, ?, ?, ?) RETURNING id`
	if err := s.get(ctx, &it.ID, query, it.Name, it.Description, it.Available, it.OwnerID, it.RequestID); err != nil {
		if isForeignKeyViolation(err) {
			return domain.Conflict("item references a missing owner or request")
		}
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

func (s *Store) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	var it models.Item
	err := s.get(ctx, &it, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("item", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &it, nil
}

func (s *Store) UpdateItem(ctx context.Context, it *models.Item) error {
	n, err := s.exec(ctx,
		`UPDATE items SET name = ?, description = ?, available = ? WHERE id = ?`,
		it.Name, it.Description, it.Available, it.ID)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	if n == 0 {
		return domain.NotFound("item", it.ID)
	}
	return nil
}

func (s *Store) ListItemsByOwner(ctx context.Context, ownerID int64, page models.Page) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE owner_id = ? ORDER BY id`
	pc, pa := pageClause(page)

	items := make([]models.Item, 0)
	if err := s.selectAll(ctx, &items, query+pc, append([]any{ownerID}, pa...)...); err != nil {
		return nil, fmt.Errorf("failed to list owner items: %w", err)
	}
	return items, nil
}

func (s *Store) ListItemsByRequest(ctx context.Context, requestID int64) ([]models.Item, error) {
	items := make([]models.Item, 0)
	query := `SELECT ` + itemColumns + ` FROM items WHERE request_id = ? ORDER BY id`
	if err := s.selectAll(ctx, &items, query, requestID); err != nil {
		return nil, fmt.Errorf("failed to list request items: %w", err)
	}
	return items, nil
}

// SearchItems matches available items whose name or description contains
// text, ignoring case.
func (s *Store) SearchItems(ctx context.Context, text string, page models.Page) ([]models.Item, error) {
	pattern := "%" + escapeLike(strings.ToLower(text)) + "%"
	query := `SELECT ` + itemColumns + ` FROM items
		WHERE available = ?
		AND (LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')
		ORDER BY id`
	pc, pa := pageClause(page)

	items := make([]models.Item, 0)
	args := append([]any{true, pattern, pattern}, pa...)
	if err := s.selectAll(ctx, &items, query+pc, args...); err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	return items, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
