package service

import (
	"context"
	"strings"
	"time"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

type ItemService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewItemService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *ItemService {
	return &ItemService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *ItemService) Create(ctx context.Context, ownerID int64, in models.ItemCreate) (_ *models.Item, err error) {
	ctx, span := startSpan(ctx, "ItemService.Create", attribute.Int64("user.id", ownerID))
	defer func() { endSpan(span, err) }()

	if err := in.Validate(); err != nil {
		return nil, domain.Invalid(err)
	}

	item := models.Item{
		Name:        in.Name,
		Description: in.Description,
		Available:   *in.Available,
		OwnerID:     ownerID,
		RequestID:   in.RequestID,
	}
	err = s.repo.WithTx(ctx, func(st domain.Store) error {
		if _, err := st.GetUser(ctx, ownerID); err != nil {
			return err
		}
		if in.RequestID != nil {
			if _, err := st.GetRequest(ctx, *in.RequestID); err != nil {
				return err
			}
		}
		return st.CreateItem(ctx, &item)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")
	return &item, nil
}

// Update applies a partial change; only the owner may edit an item.
func (s *ItemService) Update(ctx context.Context, callerID, itemID int64, in models.ItemUpdate) (_ *models.Item, err error) {
	ctx, span := startSpan(ctx, "ItemService.Update", attribute.Int64("user.id", callerID), attribute.Int64("item.id", itemID))
	defer func() { endSpan(span, err) }()

	if err := in.Validate(); err != nil {
		return nil, domain.Invalid(err)
	}

	var item *models.Item
	err = s.repo.WithTx(ctx, func(st domain.Store) error {
		if _, err := st.GetUser(ctx, callerID); err != nil {
			return err
		}
		it, err := st.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if it.OwnerID != callerID {
			return domain.AccessDenied("only the owner can edit item %d", itemID)
		}
		in.Apply(it)
		if err := st.UpdateItem(ctx, it); err != nil {
			return err
		}
		item = it
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", itemID).Int64("owner_id", callerID).Msg("item updated")
	return item, nil
}

// Get returns the item card. Booking neighbours are shown to the owner only.
func (s *ItemService) Get(ctx context.Context, callerID, itemID int64) (_ *models.ItemDetails, err error) {
	ctx, span := startSpan(ctx, "ItemService.Get", attribute.Int64("user.id", callerID), attribute.Int64("item.id", itemID))
	defer func() { endSpan(span, err) }()

	if _, err := s.repo.GetUser(ctx, callerID); err != nil {
		return nil, err
	}
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, *item, item.OwnerID == callerID)
}

// ListOwned pages through the caller's items in id order.
func (s *ItemService) ListOwned(ctx context.Context, ownerID int64, page models.Page) (_ []models.ItemDetails, err error) {
	ctx, span := startSpan(ctx, "ItemService.ListOwned", attribute.Int64("user.id", ownerID))
	defer func() { endSpan(span, err) }()

	if _, err := s.repo.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListItemsByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, err
	}

	out := make([]models.ItemDetails, 0, len(items))
	for _, it := range items {
		d, err := s.details(ctx, it, true)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

// Search finds available items by name or description. Blank text yields
// an empty result rather than everything.
func (s *ItemService) Search(ctx context.Context, text string, page models.Page) (_ []models.Item, err error) {
	ctx, span := startSpan(ctx, "ItemService.Search", attribute.String("search.text", text))
	defer func() { endSpan(span, err) }()

	text = strings.TrimSpace(text)
	if text == "" {
		return []models.Item{}, nil
	}
	return s.repo.SearchItems(ctx, text, page)
}

// AddComment lets a user review an item after one of their approved
// bookings of it has finished.
func (s *ItemService) AddComment(ctx context.Context, authorID, itemID int64, in models.CommentCreate) (_ *models.Comment, err error) {
	ctx, span := startSpan(ctx, "ItemService.AddComment", attribute.Int64("user.id", authorID), attribute.Int64("item.id", itemID))
	defer func() { endSpan(span, err) }()

	if err := in.Validate(); err != nil {
		return nil, domain.Invalid(err)
	}

	now := s.now()
	var comment models.Comment
	err = s.repo.WithTx(ctx, func(st domain.Store) error {
		author, err := st.GetUser(ctx, authorID)
		if err != nil {
			return err
		}
		if _, err := st.GetItem(ctx, itemID); err != nil {
			return err
		}
		ok, err := st.HasFinishedBooking(ctx, authorID, itemID, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ItemUnavailable("user %d has no finished approved booking of item %d", authorID, itemID)
		}

		comment = models.Comment{
			Text:       in.Text,
			ItemID:     itemID,
			AuthorID:   authorID,
			AuthorName: author.Name,
			Created:    now,
		}
		return st.CreateComment(ctx, &comment)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("comment_id", comment.ID).Int64("item_id", itemID).Int64("author_id", authorID).Msg("comment added")
	if s.eventBus != nil {
		payload := events.CommentEventPayload{CommentID: comment.ID, ItemID: itemID, AuthorID: authorID}
		if err := s.eventBus.PublishJSON(events.EventCommentAdded, payload); err != nil {
			s.logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("failed to publish event")
		}
	}
	return &comment, nil
}

func (s *ItemService) details(ctx context.Context, item models.Item, withBookings bool) (*models.ItemDetails, error) {
	comments, err := s.repo.ListItemComments(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	d := &models.ItemDetails{Item: item, Comments: comments}
	if !withBookings {
		return d, nil
	}

	bookings, err := s.repo.ListItemBookings(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	d.LastBooking, d.NextBooking = models.NeighbourBookings(bookings, s.now())
	return d, nil
}
