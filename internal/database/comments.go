package database

import (
	"context"
	"fmt"

	"shareit/internal/models"
)

func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	c.Created = utc(c.Created)
	query := `INSERT INTO comments (text, item_id, author_id, created) VALUES (?, ?, ?, ?) RETURNING id`
	if err := s.get(ctx, &c.ID, query, c.Text, c.ItemID, c.AuthorID, c.Created); err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (s *Store) ListItemComments(ctx context.Context, itemID int64) ([]models.Comment, error) {
	comments := make([]models.Comment, 0)
	query := `SELECT c.id, c.text, c.item_id, c.author_id, u.name AS author_name, c.created
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.item_id = ?
		ORDER BY c.created, c.id`
	if err := s.selectAll(ctx, &comments, query, itemID); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}
