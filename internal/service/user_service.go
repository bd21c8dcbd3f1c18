package service

import (
	"context"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

type UserService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewUserService(repo domain.Repository, logger *zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) Create(ctx context.Context, in models.UserCreate) (_ *models.User, err error) {
	ctx, span := startSpan(ctx, "UserService.Create")
	defer func() { endSpan(span, err) }()

	if err := in.Validate(); err != nil {
		return nil, domain.Invalid(err)
	}

	u := models.User{Name: in.Name, Email: in.Email}
	if err := s.repo.CreateUser(ctx, &u); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", u.ID).Msg("user created")
	return &u, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (_ *models.User, err error) {
	ctx, span := startSpan(ctx, "UserService.Get", attribute.Int64("user.id", id))
	defer func() { endSpan(span, err) }()

	return s.repo.GetUser(ctx, id)
}

func (s *UserService) List(ctx context.Context) (_ []models.User, err error) {
	ctx, span := startSpan(ctx, "UserService.List")
	defer func() { endSpan(span, err) }()

	return s.repo.ListUsers(ctx)
}

// Update changes only the fields present in the update.
func (s *UserService) Update(ctx context.Context, id int64, in models.UserUpdate) (_ *models.User, err error) {
	ctx, span := startSpan(ctx, "UserService.Update", attribute.Int64("user.id", id))
	defer func() { endSpan(span, err) }()

	if err := in.Validate(); err != nil {
		return nil, domain.Invalid(err)
	}

	var user *models.User
	err = s.repo.WithTx(ctx, func(st domain.Store) error {
		u, err := st.GetUser(ctx, id)
		if err != nil {
			return err
		}
		in.Apply(u)
		if err := st.UpdateUser(ctx, u); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", id).Msg("user updated")
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := startSpan(ctx, "UserService.Delete", attribute.Int64("user.id", id))
	defer func() { endSpan(span, err) }()

	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}
