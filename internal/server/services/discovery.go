package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/gophmarket/internal/common"
	"github.com/dmitrijs2005/gophmarket/internal/logging"
	"github.com/dmitrijs2005/gophmarket/internal/server/models"
	"github.com/dmitrijs2005/gophmarket/internal/server/presence"
	"github.com/dmitrijs2005/gophmarket/internal/server/repositories/ads"
	"github.com/dmitrijs2005/gophmarket/internal/server/repositories/users"
	"golang.org/x/sync/errgroup"
)

const defaultDiscoveryWorkers = 8

// DiscoveryService assembles the public feed from every owner store. It only
// reads; the merged view is rebuilt on every call and never stored.
type DiscoveryService struct {
	store    ads.Repository
	users    users.Repository
	presence *presence.Tracker
	workers  int
	logger   logging.Logger
}

func NewDiscoveryService(store ads.Repository, u users.Repository, p *presence.Tracker, workers int, l logging.Logger) *DiscoveryService {
	if workers <= 0 {
		workers = defaultDiscoveryWorkers
	}
	return &DiscoveryService{
		store:    store,
		users:    u,
		presence: p,
		workers:  workers,
		logger:   l.With("module", "discovery"),
	}
}

// ownerAds is the content of one owner store at scan time.
type ownerAds struct {
	owner string
	ads   []models.Ad
}

// scan reads all owner stores concurrently. Unreadable stores are logged and
// counted in skipped. Results are ordered by owner id.
func (d *DiscoveryService) scan(ctx context.Context) (stores []ownerAds, skipped int, err error) {
	owners, err := d.store.Owners(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list owners: %w", err)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)

	for _, owner := range owners {
		owner := owner
		g.Go(func() error {
			list, err := d.store.List(gctx, owner)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				d.logger.Warn(ctx, "skipping owner store", "owner", owner, "error", err)
				skipped++
				return nil
			}
			stores = append(stores, ownerAds{owner: owner, ads: list})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	sort.Slice(stores, func(i, j int) bool { return stores[i].owner < stores[j].owner })
	return stores, skipped, nil
}

// visible decides whether ad appears in the feed of viewerID. A public ad is
// served from its owner's device: the viewer's own ads follow the viewer's
// network status, other owners are assumed reachable.
func (d *DiscoveryService) visible(ad *models.Ad, viewerID string) bool {
	switch ad.SyncStatus {
	case models.StatusSynced:
		return true
	case models.StatusPublic:
		return ad.SellerID != viewerID || d.presence.IsOnline(viewerID)
	default:
		return false
	}
}

// Collect returns the ads of every store visible to viewerID, deduplicated by
// public id. When two records share a key the one read last wins.
func (d *DiscoveryService) Collect(ctx context.Context, viewerID string) ([]models.Ad, error) {
	stores, skipped, err := d.scan(ctx)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]models.Ad)
	var order []string
	for _, s := range stores {
		for _, ad := range s.ads {
			if !d.visible(&ad, viewerID) {
				continue
			}
			key := ad.DedupKey()
			if _, seen := byKey[key]; !seen {
				order = append(order, key)
			}
			byKey[key] = ad
		}
	}

	result := make([]models.Ad, 0, len(order))
	for _, key := range order {
		result = append(result, byKey[key])
	}

	d.logger.Debug(ctx, "feed collected", "stores", len(stores), "skipped", skipped, "ads", len(result))
	return result, nil
}

// Feed is the ranked public feed as seen by viewerID (GetAds).
func (d *DiscoveryService) Feed(ctx context.Context, viewerID string) ([]models.Ad, error) {
	collected, err := d.Collect(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	viewer, err := d.users.GetByID(ctx, viewerID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("load viewer: %w", err)
		}
		viewer = nil
	}

	return Rank(collected, viewer), nil
}
