package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shareit/internal/domain"
	"shareit/internal/models"
)

const requestColumns = `id, description, requester_id, created`

func (s *Store) CreateRequest(ctx context.Context, r *models.ItemRequest) error {
	r.Created = utc(r.Created)
	query := `INSERT INTO item_requests (description, requester_id, created) VALUES (?, ?, ?) RETURNING id`
	if err := s.get(ctx, &r.ID, query, r.Description, r.RequesterID, r.Created); err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return nil
}

func (s *Store) GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error) {
	var r models.ItemRequest
	err := s.get(ctx, &r, `SELECT `+requestColumns+` FROM item_requests WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("request", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return &r, nil
}

func (s *Store) ListRequestsByRequester(ctx context.Context, requesterID int64) ([]models.ItemRequest, error) {
	requests := make([]models.ItemRequest, 0)
	query := `SELECT ` + requestColumns + ` FROM item_requests WHERE requester_id = ? ORDER BY created DESC, id DESC`
	if err := s.selectAll(ctx, &requests, query, requesterID); err != nil {
		return nil, fmt.Errorf("failed to list user requests: %w", err)
	}
	return requests, nil
}

// ListRequestsExcept pages through requests made by anyone but requesterID.
func (s *Store) ListRequestsExcept(ctx context.Context, requesterID int64, page models.Page) ([]models.ItemRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM item_requests WHERE requester_id <> ? ORDER BY created DESC, id DESC`
	pc, pa := pageClause(page)

	requests := make([]models.ItemRequest, 0)
	if err := s.selectAll(ctx, &requests, query+pc, append([]any{requesterID}, pa...)...); err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}
