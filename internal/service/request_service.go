package service

import (
	"context"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

// RequestService manages item requests. Every request it returns carries
// the items listed in answer to it.
type RequestService struct {
	repo   domain.Repository
	logger *zerolog.Logger
	now    func() time.Time
}

func NewRequestService(repo domain.Repository, logger *zerolog.Logger) *RequestService {
	return &RequestService{repo: repo, logger: logger, now: time.Now}
}

func (s *RequestService) Add(ctx context.Context, userID int64, in models.ItemRequestCreate) (_ *models.ItemRequest, err error) {
	ctx, span := startSpan(ctx, "RequestService.Add", attribute.Int64("user.id", userID))
	defer func() { endSpan(span, err) }()

	if err := in.Validate(); err != nil {
		return nil, domain.Invalid(err)
	}

	r := models.ItemRequest{Description: in.Description, RequesterID: userID, Created: s.now(), Items: []models.Item{}}
	err = s.repo.WithTx(ctx, func(st domain.Store) error {
		if _, err := st.GetUser(ctx, userID); err != nil {
			return err
		}
		return st.CreateRequest(ctx, &r)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("request_id", r.ID).Int64("user_id", userID).Msg("item request added")
	return &r, nil
}

// ListOwn returns the caller's requests, newest first.
func (s *RequestService) ListOwn(ctx context.Context, userID int64) (_ []models.ItemRequest, err error) {
	ctx, span := startSpan(ctx, "RequestService.ListOwn", attribute.Int64("user.id", userID))
	defer func() { endSpan(span, err) }()

	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	requests, err := s.repo.ListRequestsByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, requests)
}

// ListOthers pages through everybody else's requests, newest first.
func (s *RequestService) ListOthers(ctx context.Context, userID int64, page models.Page) (_ []models.ItemRequest, err error) {
	ctx, span := startSpan(ctx, "RequestService.ListOthers", attribute.Int64("user.id", userID))
	defer func() { endSpan(span, err) }()

	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	requests, err := s.repo.ListRequestsExcept(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, requests)
}

func (s *RequestService) Get(ctx context.Context, userID, requestID int64) (_ *models.ItemRequest, err error) {
	ctx, span := startSpan(ctx, "RequestService.Get", attribute.Int64("user.id", userID), attribute.Int64("request.id", requestID))
	defer func() { endSpan(span, err) }()

	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	r, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if r.Items, err = s.repo.ListItemsByRequest(ctx, r.ID); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RequestService) withItems(ctx context.Context, requests []models.ItemRequest) ([]models.ItemRequest, error) {
	for i := range requests {
		items, err := s.repo.ListItemsByRequest(ctx, requests[i].ID)
		if err != nil {
			return nil, err
		}
		requests[i].Items = items
	}
	return requests, nil
}
