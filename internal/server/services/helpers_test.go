package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophmarket/internal/logging"
	"github.com/dmitrijs2005/gophmarket/internal/server/auth"
	"github.com/dmitrijs2005/gophmarket/internal/server/cloud"
	"github.com/dmitrijs2005/gophmarket/internal/server/config"
	"github.com/dmitrijs2005/gophmarket/internal/server/models"
	"github.com/dmitrijs2005/gophmarket/internal/server/policy"
	"github.com/dmitrijs2005/gophmarket/internal/server/presence"
	"github.com/dmitrijs2005/gophmarket/internal/server/repositories/ads"
	"github.com/dmitrijs2005/gophmarket/internal/server/repositories/audit"
	"github.com/dmitrijs2005/gophmarket/internal/server/repositories/registrations"
	"github.com/dmitrijs2005/gophmarket/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store      *failingStore
	cloud      *cloud.MemoryStorage
	regs       *registrations.MemoryRepository
	users      *users.MemoryRepository
	audit      *audit.MemoryRepository
	presence   *presence.Tracker
	cfg        *config.Config
	ads        *AdService
	discovery  *DiscoveryService
	moderation *ModerationService
	userSvc    *UserService
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SyncTimeout = time.Second
	cfg.ModerationTimeout = time.Second
	return cfg
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	e := &testEnv{
		store:    &failingStore{Repository: ads.NewMemoryRepository(), broken: map[string]bool{}},
		cloud:    cloud.NewMemoryStorage("market"),
		regs:     registrations.NewMemoryRepository(),
		users:    users.NewMemoryRepository(),
		audit:    audit.NewMemoryRepository(),
		presence: presence.NewTracker(),
		cfg:      newTestConfig(),
	}
	log := logging.Nop{}
	signer := auth.NewListingSigner([]byte(e.cfg.SecretKey), time.Duration(e.cfg.RegistrationTTLHours)*time.Hour)

	e.ads = NewAdService(e.store, e.cloud, signer, NewRepositoryRegistrar(e.regs), e.cfg, log)
	e.ads.now = steppingClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	e.discovery = NewDiscoveryService(e.store, e.users, e.presence, 4, log)
	e.moderation = NewModerationService(e.ads, e.discovery, e.users, e.audit, policy.Default(), e.cfg.ModerationTimeout, log)
	e.userSvc = NewUserService(e.users, e.presence, e.cfg, log)

	e.users.Seed(models.User{ID: "admin", UserName: "root", Tier: models.TierPrivileged})
	e.users.Seed(models.User{ID: "mod", UserName: "mod", Tier: models.TierModerator})
	return e
}

// steppingClock returns a clock that advances one second per call, so that
// created_at values are distinct and ordered.
func steppingClock(start time.Time) func() time.Time {
	var n atomic.Int64
	return func() time.Time {
		return start.Add(time.Duration(n.Add(1)) * time.Second)
	}
}

func draft(title string) models.Content {
	return models.Content{
		Title:        title,
		Description:  "barely used",
		CategoryPath: []string{"sports", "bikes"},
		Price:        120,
		Currency:     "EUR",
		Media:        []models.Media{{URL: "https://img.example/" + title, Type: "image"}},
	}
}

func (e *testEnv) create(t *testing.T, owner, title string) *models.Ad {
	t.Helper()
	ad, err := e.ads.Create(context.Background(), owner, draft(title))
	require.NoError(t, err)
	return ad
}

func (e *testEnv) publish(t *testing.T, owner, title string) *models.Ad {
	t.Helper()
	ad := e.create(t, owner, title)
	ad, err := e.ads.Publish(context.Background(), owner, owner, ad.ID)
	require.NoError(t, err)
	return ad
}

// failingStore breaks List for selected owners, and Replace for everyone
// while replaceErr is set.
type failingStore struct {
	ads.Repository
	broken     map[string]bool
	replaceErr error
}

func (f *failingStore) Replace(ctx context.Context, ownerID string, ad *models.Ad) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	return f.Repository.Replace(ctx, ownerID, ad)
}

func (f *failingStore) List(ctx context.Context, ownerID string) ([]models.Ad, error) {
	if f.broken[ownerID] {
		return nil, fmt.Errorf("store %s: %w", ownerID, errors.New("disk I/O error"))
	}
	return f.Repository.List(ctx, ownerID)
}

// blockingStorage never finishes an upload before the context ends.
type blockingStorage struct {
	*cloud.MemoryStorage
}

func (b *blockingStorage) Put(ctx context.Context, key string, body []byte, contentType string) error {
	<-ctx.Done()
	return ctx.Err()
}
