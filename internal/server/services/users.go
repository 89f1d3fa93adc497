package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophmarket/internal/common"
	"github.com/dmitrijs2005/gophmarket/internal/cryptox"
	"github.com/dmitrijs2005/gophmarket/internal/logging"
	"github.com/dmitrijs2005/gophmarket/internal/server/auth"
	"github.com/dmitrijs2005/gophmarket/internal/server/config"
	"github.com/dmitrijs2005/gophmarket/internal/server/models"
	"github.com/dmitrijs2005/gophmarket/internal/server/presence"
	"github.com/dmitrijs2005/gophmarket/internal/server/repositories/users"
)

type UserService struct {
	repo                        users.Repository
	presence                    *presence.Tracker
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	logger                      logging.Logger
}

func NewUserService(repo users.Repository, p *presence.Tracker, cfg *config.Config, l logging.Logger) *UserService {
	return &UserService{
		repo:                        repo,
		presence:                    p,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		logger:                      l.With("module", "users"),
	}
}

// Register creates a member account.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	return s.create(ctx, username, password, models.TierMember)
}

// EnsureUser creates an account with the given tier unless the name is
// already taken. Used to bootstrap the admin account.
func (s *UserService) EnsureUser(ctx context.Context, username, password string, tier models.Tier) error {
	_, err := s.create(ctx, username, password, tier)
	if errors.Is(err, common.ErrUserAlreadyExists) {
		return nil
	}
	return err
}

func (s *UserService) create(ctx context.Context, username, password string, tier models.Tier) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}

	salt, err := cryptox.NewSalt()
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, &models.User{
		UserName:     username,
		Salt:         salt,
		PasswordHash: cryptox.HashPassword([]byte(password), salt),
		Tier:         tier,
	})
	if err != nil {
		if errors.Is(err, common.ErrUserAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "username", username, "tier", tier)
	return user, nil
}

// Login checks the password and returns an access token.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthenticated
		}
		return "", err
	}

	if !cryptox.VerifyPassword([]byte(password), user.Salt, user.PasswordHash) {
		return "", common.ErrUnauthenticated
	}

	return auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
}

// Authenticate resolves an access token to a user id.
func (s *UserService) Authenticate(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

func (s *UserService) Follow(ctx context.Context, userID, sellerID string) error {
	if userID == sellerID {
		return fmt.Errorf("%w: cannot follow yourself", common.ErrValidation)
	}
	if _, err := s.repo.GetByID(ctx, sellerID); err != nil {
		return err
	}
	return s.repo.Follow(ctx, userID, sellerID)
}

func (s *UserService) Unfollow(ctx context.Context, userID, sellerID string) error {
	return s.repo.Unfollow(ctx, userID, sellerID)
}

// SetNetworkStatus records whether the user's device is reachable, which
// decides the visibility of their public ads.
func (s *UserService) SetNetworkStatus(ctx context.Context, userID string, online bool) {
	s.presence.SetOnline(userID, online)
	s.logger.Info(ctx, "network status changed", "user", userID, "online", online)
}
