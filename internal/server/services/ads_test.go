package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophmarket/internal/common"
	"github.com/dmitrijs2005/gophmarket/internal/logging"
	"github.com/dmitrijs2005/gophmarket/internal/server/auth"
	"github.com/dmitrijs2005/gophmarket/internal/server/cloud"
	"github.com/dmitrijs2005/gophmarket/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	e := newTestEnv(t)

	ad := e.create(t, "alice", "bike")

	assert.NotEmpty(t, ad.ID)
	assert.NotEmpty(t, ad.PublicID)
	assert.NotEqual(t, ad.ID, ad.PublicID)
	assert.Equal(t, "alice", ad.SellerID)
	assert.Equal(t, models.StatusLocal, ad.SyncStatus)
	assert.Equal(t, int64(1), ad.Version)
	assert.Zero(t, ad.BoostScore)
	assert.Equal(t, ad.CreatedAt, ad.UpdatedAt)

	stored, err := e.store.Get(context.Background(), "alice", ad.ID)
	require.NoError(t, err)
	assert.Equal(t, *ad, *stored)
}

func TestCreate_Validation(t *testing.T) {
	e := newTestEnv(t)

	tests := []struct {
		name   string
		mutate func(c *models.Content)
	}{
		{"blank title", func(c *models.Content) { c.Title = "  " }},
		{"no category", func(c *models.Content) { c.CategoryPath = nil }},
		{"negative price", func(c *models.Content) { c.Price = -1 }},
		{"media without url", func(c *models.Content) { c.Media = []models.Media{{Type: "image"}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := draft("bike")
			tt.mutate(&c)
			_, err := e.ads.Create(context.Background(), "alice", c)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}

	list, err := e.ads.List(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdate(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	ad := e.create(t, "alice", "bike")

	edit := *ad
	edit.Content = draft("mountain bike")
	res, err := e.ads.Update(ctx, "alice", edit)
	require.NoError(t, err)
	assert.False(t, res.ConflictResolved)
	assert.Equal(t, int64(2), res.Ad.Version)
	assert.Equal(t, "mountain bike", res.Ad.Title)
	assert.True(t, res.Ad.UpdatedAt.After(ad.UpdatedAt))
	assert.Equal(t, ad.CreatedAt, res.Ad.CreatedAt)
}

func TestUpdate_StaleEditResolvesConflict(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	ad := e.create(t, "alice", "bike")

	// bring the stored copy to version 5
	for i := 0; i < 4; i++ {
		cur, err := e.store.Get(ctx, "alice", ad.ID)
		require.NoError(t, err)
		_, err = e.ads.Update(ctx, "alice", *cur)
		require.NoError(t, err)
	}

	stale := *ad
	stale.Version = 3
	stale.Content = draft("edited offline")
	res, err := e.ads.Update(ctx, "alice", stale)
	require.NoError(t, err)

	assert.True(t, res.ConflictResolved)
	assert.Equal(t, int64(6), res.Ad.Version)
	assert.Equal(t, "edited offline", res.Ad.Title)
}

func TestUpdate_Errors(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	ad := e.create(t, "alice", "bike")

	_, err := e.ads.Update(ctx, "alice", models.Ad{ID: "missing", Content: draft("x")})
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = e.ads.Update(ctx, "bob", models.Ad{ID: ad.ID, Content: draft("x")})
	assert.ErrorIs(t, err, common.ErrNotFound, "another owner's store never holds the ad")

	bad := *ad
	bad.Title = ""
	_, err = e.ads.Update(ctx, "alice", bad)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestUpdate_ConcurrentEditsKeepVersionMonotonic(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	ad := e.create(t, "alice", "bike")

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.ads.Update(ctx, "alice", *ad)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := e.store.Get(ctx, "alice", ad.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1+writers), stored.Version)
}

func TestDelete(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	ad := e.create(t, "alice", "bike")

	require.NoError(t, e.ads.Delete(ctx, "alice", ad.ID))
	_, err := e.store.Get(ctx, "alice", ad.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.NoError(t, e.ads.Delete(ctx, "alice", ad.ID), "deleting an absent ad is a no-op")
}

func TestDelete_SyncedRemovesCloudCopy(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	ad := e.publish(t, "alice", "bike")
	ad, _, err := e.ads.SyncToCloud(ctx, "alice", "alice", ad.ID)
	require.NoError(t, err)

	require.NoError(t, e.ads.Delete(ctx, "alice", ad.ID))

	_, ok := e.cloud.Object(cloud.ListingKey(ad.PublicID))
	assert.False(t, ok)
	_, _, err = e.regs.Get(ctx, ad.PublicID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestLifecycle_HappyPath(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	ad := e.create(t, "alice", "bike")

	ad, err := e.ads.Publish(ctx, "alice", "alice", ad.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublic, ad.SyncStatus)
	assert.Equal(t, int64(2), ad.Version)

	ad, reg, err := e.ads.SyncToCloud(ctx, "alice", "alice", ad.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSynced, ad.SyncStatus)
	assert.Equal(t, int64(3), ad.Version)
	assert.NotEmpty(t, ad.CloudURL)
	assert.NotEmpty(t, ad.Signature)
	require.NotNil(t, reg)
	assert.Equal(t, models.DiscoveryRegistration{
		PublicID:   ad.PublicID,
		ListingURL: ad.CloudURL,
		Signature:  ad.Signature,
		TTLHours:   24,
	}, *reg)

	body, ok := e.cloud.Object(cloud.ListingKey(ad.PublicID))
	require.True(t, ok)
	var snap map[string]any
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.Equal(t, ad.PublicID, snap["public_id"])
	assert.Equal(t, "bike", snap["title"])
	assert.EqualValues(t, 3, snap["version"])

	stored, _, err := e.regs.Get(ctx, ad.PublicID)
	require.NoError(t, err)
	assert.Equal(t, *reg, *stored)

	ad, err = e.ads.UnsyncFromCloud(ctx, "alice", "alice", ad.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublic, ad.SyncStatus)
	assert.Empty(t, ad.CloudURL)
	assert.Empty(t, ad.Signature)
	assert.Equal(t, int64(4), ad.Version)
	_, ok = e.cloud.Object(cloud.ListingKey(ad.PublicID))
	assert.False(t, ok)

	ad, err = e.ads.Unpublish(ctx, "alice", "alice", ad.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusLocal, ad.SyncStatus)
	assert.Equal(t, int64(5), ad.Version)
}

func TestLifecycle_NoOps(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	ad := e.create(t, "alice", "bike")

	same, err := e.ads.Unpublish(ctx, "alice", "alice", ad.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), same.Version)

	ad, err = e.ads.Publish(ctx, "alice", "alice", ad.ID)
	require.NoError(t, err)
	same, err = e.ads.Publish(ctx, "alice", "alice", ad.ID)
	require.NoError(t, err)
	assert.Equal(t, ad.Version, same.Version)

	ad, _, err = e.ads.SyncToCloud(ctx, "alice", "alice", ad.ID)
	require.NoError(t, err)
	same, reg, err := e.ads.SyncToCloud(ctx, "alice", "alice", ad.ID)
	require.NoError(t, err)
	assert.Nil(t, reg)
	assert.Equal(t, ad.Version, same.Version)
	assert.Equal(t, ad.CloudURL, same.CloudURL)

	same, err = e.ads.Publish(ctx, "alice", "alice", ad.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSynced, same.SyncStatus)
}

func TestSyncToCloud_FromLocal(t *testing.T) {
	e := newTestEnv(t)
	ad := e.create(t, "alice", "bike")

	ad, _, err := e.ads.SyncToCloud(context.Background(), "alice", "alice", ad.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSynced, ad.SyncStatus)
}

func TestUnpublish_SyncedAdIsUnsyncedFirst(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	ad := e.publish(t, "alice", "bike")
	ad, _, err := e.ads.SyncToCloud(ctx, "alice", "alice", ad.ID)
	require.NoError(t, err)

	ad, err = e.ads.Unpublish(ctx, "alice", "alice", ad.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusLocal, ad.SyncStatus)
	assert.Empty(t, ad.CloudURL)
	assert.Empty(t, ad.Signature)
	_, _, err = e.regs.Get(ctx, ad.PublicID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestLifecycle_Errors(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	ad := e.publish(t, "alice", "bike")

	_, err := e.ads.Publish(ctx, "bob", "alice", ad.ID)
	assert.ErrorIs(t, err, common.ErrAuthorization)
	_, _, err = e.ads.SyncToCloud(ctx, "bob", "alice", ad.ID)
	assert.ErrorIs(t, err, common.ErrAuthorization)

	_, err = e.ads.Publish(ctx, "alice", "alice", "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = e.ads.UnsyncFromCloud(ctx, "alice", "alice", ad.ID)
	assert.ErrorIs(t, err, common.ErrInvalidTransition)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestSyncToCloud_CloudFailureIsTransient(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	ad := e.publish(t, "alice", "bike")

	e.cloud.FailWith = errors.New("connection refused")
	_, _, err := e.ads.SyncToCloud(ctx, "alice", "alice", ad.ID)
	assert.ErrorIs(t, err, common.ErrTransient)

	stored, err := e.store.Get(ctx, "alice", ad.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublic, stored.SyncStatus)
	assert.Equal(t, ad.Version, stored.Version)
	assert.Empty(t, stored.CloudURL)

	e.cloud.FailWith = nil
	synced, _, err := e.ads.SyncToCloud(ctx, "alice", "alice", ad.ID)
	require.NoError(t, err, "retry after a transient failure succeeds")
	assert.Equal(t, ad.Version+1, synced.Version)
}

func TestSyncToCloud_StoreFailureRemovesCloudCopy(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	ad := e.publish(t, "alice", "bike")

	e.store.replaceErr = errors.New("disk full")
	_, _, err := e.ads.SyncToCloud(ctx, "alice", "alice", ad.ID)
	require.Error(t, err)

	_, ok := e.cloud.Object(cloud.ListingKey(ad.PublicID))
	assert.False(t, ok, "snapshot of an unsynced ad is removed")
	_, _, err = e.regs.Get(ctx, ad.PublicID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	stored, err := e.store.Get(ctx, "alice", ad.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublic, stored.SyncStatus)
	assert.Empty(t, stored.CloudURL)
}

func TestSyncToCloud_WaitsForOwnerLockWithinTimeout(t *testing.T) {
	e := newTestEnv(t)
	ad := e.publish(t, "alice", "bike")
	e.ads.syncTimeout = 20 * time.Millisecond

	unlock, err := e.ads.locks.lock(context.Background(), "alice")
	require.NoError(t, err)
	defer unlock()

	start := time.Now()
	_, _, err = e.ads.SyncToCloud(context.Background(), "alice", "alice", ad.ID)
	assert.ErrorIs(t, err, common.ErrTransient)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSyncToCloud_Timeout(t *testing.T) {
	e := newTestEnv(t)
	e.cfg.SyncTimeout = 20 * time.Millisecond
	signer := auth.NewListingSigner([]byte("k"), time.Hour)
	svc := NewAdService(e.store, &blockingStorage{MemoryStorage: cloud.NewMemoryStorage("x")}, signer,
		NewRepositoryRegistrar(e.regs), e.cfg, logging.Nop{})

	ad, err := svc.Create(context.Background(), "alice", draft("bike"))
	require.NoError(t, err)

	start := time.Now()
	_, _, err = svc.SyncToCloud(context.Background(), "alice", "alice", ad.ID)
	assert.ErrorIs(t, err, common.ErrTransient)
	assert.Less(t, time.Since(start), time.Second)
}

func TestBoostAd(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	ad := e.publish(t, "alice", "bike")

	ad, err := e.ads.BoostAd(ctx, "alice", "alice", ad.ID, 30)
	require.NoError(t, err)
	ad, err = e.ads.BoostAd(ctx, "alice", "alice", ad.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, int64(42), ad.BoostScore)

	_, err = e.ads.BoostAd(ctx, "alice", "alice", ad.ID, 0)
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = e.ads.BoostAd(ctx, "alice", "alice", ad.ID, -5)
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = e.ads.BoostAd(ctx, "bob", "alice", ad.ID, 5)
	assert.ErrorIs(t, err, common.ErrAuthorization)
}

func TestReportAd(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	ad := e.publish(t, "alice", "bike")

	require.NoError(t, e.ads.ReportAd(ctx, "bob", ad.PublicID, "looks fake"))

	stored, err := e.store.Get(ctx, "alice", ad.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsFlagged)
	assert.Equal(t, "looks fake", stored.ReportReason)
	assert.Equal(t, ad.Version, stored.Version, "a report is not an owner edit")
	assert.Equal(t, ad.Content, stored.Content)

	assert.ErrorIs(t, e.ads.ReportAd(ctx, "bob", "missing", "x"), common.ErrNotFound)
	assert.ErrorIs(t, e.ads.ReportAd(ctx, "bob", ad.PublicID, " "), common.ErrValidation)
}

func TestReportAd_OnlyDiscoverableAds(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	hidden := e.create(t, "alice", "drafted")
	shown := e.publish(t, "alice", "listed")
	down := e.publish(t, "carol", "counterfeit")
	_, err := e.moderation.Takedown(ctx, "admin", down.ID, "counterfeit")
	require.NoError(t, err)

	tests := []struct {
		name string
		id   string
	}{
		{"local ad", hidden.PublicID},
		{"taken down ad", down.PublicID},
		{"private id of a public ad", shown.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, e.ads.ReportAd(ctx, "bob", tt.id, "spam"), common.ErrNotFound)
		})
	}

	stored, err := e.store.Get(ctx, "alice", hidden.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsFlagged)
	stored, err = e.store.Get(ctx, "alice", shown.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsFlagged)
}
