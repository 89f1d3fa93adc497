package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophmarket/internal/common"
	"github.com/dmitrijs2005/gophmarket/internal/logging"
	"github.com/dmitrijs2005/gophmarket/internal/server/cloud"
	"github.com/dmitrijs2005/gophmarket/internal/server/config"
	"github.com/dmitrijs2005/gophmarket/internal/server/models"
	"github.com/dmitrijs2005/gophmarket/internal/server/repositories/ads"
	"github.com/google/uuid"
)

// Signer issues the opaque signature attached to a synced listing.
type Signer interface {
	Sign(publicID, listingURL string) (string, error)
}

// UpdateResult is returned by AdService.Update.
type UpdateResult struct {
	Ad               *models.Ad
	ConflictResolved bool
}

// AdService owns every owner-initiated write: create, edit, delete and the
// sync-status transitions. Writes of one owner are serialised.
type AdService struct {
	store     ads.Repository
	cloud     cloud.Storage
	signer    Signer
	registrar Registrar
	logger    logging.Logger

	syncTimeout time.Duration
	ttlHours    int

	locks *ownerLocks
	now   func() time.Time
	newID func() string
}

func NewAdService(store ads.Repository, storage cloud.Storage, signer Signer, registrar Registrar, cfg *config.Config, l logging.Logger) *AdService {
	ttl := cfg.RegistrationTTLHours
	if ttl <= 0 {
		ttl = common.DefaultRegistrationTTLHours
	}
	return &AdService{
		store:       store,
		cloud:       storage,
		signer:      signer,
		registrar:   registrar,
		logger:      l.With("module", "ads"),
		syncTimeout: cfg.SyncTimeout,
		ttlHours:    ttl,
		locks:       newOwnerLocks(),
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
}

func validateContent(c models.Content) error {
	switch {
	case strings.TrimSpace(c.Title) == "":
		return fmt.Errorf("%w: title is required", common.ErrValidation)
	case len(c.CategoryPath) == 0:
		return fmt.Errorf("%w: category path is required", common.ErrValidation)
	case c.Price < 0:
		return fmt.Errorf("%w: price must not be negative", common.ErrValidation)
	}
	for i, m := range c.Media {
		if strings.TrimSpace(m.URL) == "" {
			return fmt.Errorf("%w: media %d has no url", common.ErrValidation, i)
		}
	}
	return nil
}

// Create stores a new local ad for ownerID.
func (s *AdService) Create(ctx context.Context, ownerID string, draft models.Content) (*models.Ad, error) {
	if err := validateContent(draft); err != nil {
		return nil, err
	}

	unlock, err := s.locks.lock(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	now := s.now()
	ad := &models.Ad{
		ID:         s.newID(),
		PublicID:   s.newID(),
		SellerID:   ownerID,
		SyncStatus: models.StatusLocal,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	ad.Content = models.Ad{Content: draft}.Clone().Content

	if err := s.store.Insert(ctx, ownerID, ad); err != nil {
		return nil, fmt.Errorf("insert ad: %w", err)
	}

	s.logger.Info(ctx, "ad created", "owner", ownerID, "id", ad.ID, "public_id", ad.PublicID)
	return ad, nil
}

// List returns every ad of ownerID regardless of status (GetMyAds).
func (s *AdService) List(ctx context.Context, ownerID string) ([]models.Ad, error) {
	return s.store.List(ctx, ownerID)
}

// Update applies an owner's edit through Reconcile. Editing a synced ad
// refreshes its cloud snapshot.
func (s *AdService) Update(ctx context.Context, ownerID string, incoming models.Ad) (*UpdateResult, error) {
	if incoming.ID == "" {
		return nil, fmt.Errorf("%w: id is required", common.ErrValidation)
	}
	if err := validateContent(incoming.Content); err != nil {
		return nil, err
	}

	unlock, err := s.locks.lock(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	stored, err := s.store.Get(ctx, ownerID, incoming.ID)
	if err != nil {
		return nil, err
	}

	merged, conflict := Reconcile(*stored, incoming)
	merged.UpdatedAt = s.now()

	if merged.SyncStatus == models.StatusSynced {
		if err := s.withTimeout(ctx, func(ctx context.Context) error {
			return s.uploadSnapshot(ctx, &merged)
		}); err != nil {
			return nil, err
		}
	}

	if err := s.store.Replace(ctx, ownerID, &merged); err != nil {
		return nil, fmt.Errorf("replace ad: %w", err)
	}

	if conflict {
		s.logger.Warn(ctx, "stale edit applied", "owner", ownerID, "id", merged.ID,
			"stored_version", stored.Version, "incoming_version", incoming.Version, "version", merged.Version)
	}
	return &UpdateResult{Ad: &merged, ConflictResolved: conflict}, nil
}

// Delete hard-removes an ad. A taken-down ad cannot be deleted.
func (s *AdService) Delete(ctx context.Context, ownerID, id string) error {
	unlock, err := s.locks.lock(ctx, ownerID)
	if err != nil {
		return err
	}
	defer unlock()

	ad, err := s.store.Get(ctx, ownerID, id)
	if errors.Is(err, common.ErrNotFound) {
		s.logger.Warn(ctx, "delete of absent ad", "owner", ownerID, "id", id)
		return nil
	}
	if err != nil {
		return err
	}
	if ad.SyncStatus == models.StatusTakedown {
		return fmt.Errorf("%w: ad is under takedown", common.ErrAuthorization)
	}

	if ad.SyncStatus == models.StatusSynced {
		if err := s.withTimeout(ctx, func(ctx context.Context) error {
			return s.removeFromCloud(ctx, ad)
		}); err != nil {
			return err
		}
	}

	if _, err := s.store.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete ad: %w", err)
	}
	s.logger.Info(ctx, "ad deleted", "owner", ownerID, "id", id)
	return nil
}

// transition loads the ad, applies fn and stores the result with the version
// bumped. fn returning changed=false leaves the store untouched.
func (s *AdService) transition(ctx context.Context, callerID, ownerID, id string,
	fn func(ctx context.Context, ad *models.Ad) (changed bool, err error)) (*models.Ad, error) {
	return s.transitionWithUndo(ctx, callerID, ownerID, id, fn, nil)
}

// transitionWithUndo is transition with undo run, still under the owner
// lock, when the changed ad cannot be stored.
func (s *AdService) transitionWithUndo(ctx context.Context, callerID, ownerID, id string,
	fn func(ctx context.Context, ad *models.Ad) (changed bool, err error), undo func(ctx context.Context)) (*models.Ad, error) {

	if callerID != ownerID {
		return nil, fmt.Errorf("%w: caller does not own the ad", common.ErrAuthorization)
	}

	unlock, err := s.locks.lock(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	ad, err := s.store.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	changed, err := fn(ctx, ad)
	if err != nil {
		return nil, err
	}
	if !changed {
		return ad, nil
	}

	ad.Version++
	ad.UpdatedAt = s.now()
	if err := s.store.Replace(ctx, ownerID, ad); err != nil {
		if undo != nil {
			undo(ctx)
		}
		return nil, fmt.Errorf("replace ad: %w", err)
	}
	return ad, nil
}

// leaveTakedown clears moderation state once the owner has edited the ad
// after the takedown.
func leaveTakedown(ad *models.Ad) error {
	if ad.Version <= ad.TakedownVersion {
		return fmt.Errorf("%w: ad must be edited before leaving takedown", common.ErrInvalidTransition)
	}
	ad.TakedownReason = ""
	ad.TakedownVersion = 0
	return nil
}

// Publish makes a local ad visible while its owner is reachable.
func (s *AdService) Publish(ctx context.Context, callerID, ownerID, id string) (*models.Ad, error) {
	ad, err := s.transition(ctx, callerID, ownerID, id, func(ctx context.Context, ad *models.Ad) (bool, error) {
		switch ad.SyncStatus {
		case models.StatusPublic, models.StatusSynced:
			return false, nil
		case models.StatusTakedown:
			if err := leaveTakedown(ad); err != nil {
				return false, err
			}
		}
		ad.SyncStatus = models.StatusPublic
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "ad published", "owner", ownerID, "id", id, "status", ad.SyncStatus)
	return ad, nil
}

// Unpublish returns an ad to local. A synced ad loses its cloud copy first.
func (s *AdService) Unpublish(ctx context.Context, callerID, ownerID, id string) (*models.Ad, error) {
	ad, err := s.transition(ctx, callerID, ownerID, id, func(ctx context.Context, ad *models.Ad) (bool, error) {
		switch ad.SyncStatus {
		case models.StatusLocal:
			return false, nil
		case models.StatusSynced:
			if err := s.withTimeout(ctx, func(ctx context.Context) error {
				return s.removeFromCloud(ctx, ad)
			}); err != nil {
				return false, err
			}
			ad.ClearCloud()
		case models.StatusTakedown:
			if err := leaveTakedown(ad); err != nil {
				return false, err
			}
		}
		ad.SyncStatus = models.StatusLocal
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "ad unpublished", "owner", ownerID, "id", id)
	return ad, nil
}

// SyncToCloud uploads a snapshot, attaches cloud_url and signature and
// announces the listing. The registration is nil when the ad was already
// synced.
func (s *AdService) SyncToCloud(ctx context.Context, callerID, ownerID, id string) (*models.Ad, *models.DiscoveryRegistration, error) {
	ctx, cancel := s.syncBound(ctx)
	defer cancel()

	var (
		reg      *models.DiscoveryRegistration
		uploaded *models.Ad
	)

	discard := func(ctx context.Context) {
		if uploaded != nil {
			s.discardCloudCopy(ctx, uploaded)
		}
	}

	ad, err := s.transitionWithUndo(ctx, callerID, ownerID, id, func(ctx context.Context, ad *models.Ad) (bool, error) {
		switch ad.SyncStatus {
		case models.StatusSynced:
			return false, nil
		case models.StatusTakedown:
			return false, fmt.Errorf("%w: cannot sync a taken-down ad", common.ErrInvalidTransition)
		}

		// the snapshot carries the version the record will have once stored
		next := ad.Clone()
		next.Version++
		next.SyncStatus = models.StatusSynced

		err := s.withTimeout(ctx, func(ctx context.Context) error {
			if err := s.uploadSnapshot(ctx, &next); err != nil {
				return err
			}
			uploaded = &next
			url, err := s.cloud.PresignGet(ctx, cloud.ListingKey(next.PublicID), time.Duration(s.ttlHours)*time.Hour)
			if err != nil {
				return fmt.Errorf("presign: %w", err)
			}
			sig, err := s.signer.Sign(next.PublicID, url)
			if err != nil {
				return fmt.Errorf("sign: %w", err)
			}
			r := models.DiscoveryRegistration{
				PublicID:   next.PublicID,
				ListingURL: url,
				Signature:  sig,
				TTLHours:   s.ttlHours,
			}
			if err := s.registrar.Register(ctx, r); err != nil {
				return fmt.Errorf("register: %w", err)
			}
			ad.CloudURL = url
			ad.Signature = sig
			reg = &r
			return nil
		})
		if err != nil {
			discard(ctx)
			return false, err
		}

		ad.SyncStatus = models.StatusSynced
		return true, nil
	}, discard)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info(ctx, "ad synced", "owner", ownerID, "id", id, "public_id", ad.PublicID)
	return ad, reg, nil
}

// UnsyncFromCloud takes a synced ad back to public, dropping its cloud copy
// and registration.
func (s *AdService) UnsyncFromCloud(ctx context.Context, callerID, ownerID, id string) (*models.Ad, error) {
	ctx, cancel := s.syncBound(ctx)
	defer cancel()

	ad, err := s.transition(ctx, callerID, ownerID, id, func(ctx context.Context, ad *models.Ad) (bool, error) {
		if ad.SyncStatus != models.StatusSynced {
			return false, fmt.Errorf("%w: ad is %s, not synced", common.ErrInvalidTransition, ad.SyncStatus)
		}
		if err := s.withTimeout(ctx, func(ctx context.Context) error {
			return s.removeFromCloud(ctx, ad)
		}); err != nil {
			return false, err
		}
		ad.ClearCloud()
		ad.SyncStatus = models.StatusPublic
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "ad unsynced", "owner", ownerID, "id", id)
	return ad, nil
}

// BoostAd adds amount to the ad's boost score.
func (s *AdService) BoostAd(ctx context.Context, callerID, ownerID, id string, amount int64) (*models.Ad, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: boost amount must be positive", common.ErrValidation)
	}
	ad, err := s.transition(ctx, callerID, ownerID, id, func(ctx context.Context, ad *models.Ad) (bool, error) {
		if ad.SyncStatus == models.StatusTakedown {
			return false, fmt.Errorf("%w: cannot boost a taken-down ad", common.ErrInvalidTransition)
		}
		ad.BoostScore += amount
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "ad boosted", "owner", ownerID, "id", id, "amount", amount, "boost_score", ad.BoostScore)
	return ad, nil
}

// ReportAd flags a discoverable ad by its public id. Ads that are not in the
// feed (local, taken down) are reported as not found. Reports do not bump the
// version: they are not owner edits.
func (s *AdService) ReportAd(ctx context.Context, reporterID, publicID, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: reason is required", common.ErrValidation)
	}

	discoverable := func(ad *models.Ad) bool {
		if ad.PublicID != publicID {
			return false
		}
		return ad.SyncStatus == models.StatusPublic || ad.SyncStatus == models.StatusSynced
	}
	_, err := s.modifyWhere(ctx, discoverable, func(ctx context.Context, ad *models.Ad) error {
		ad.IsFlagged = true
		ad.ReportReason = reason
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "ad reported", "reporter", reporterID, "public_id", publicID)
	return nil
}

// byAnyID matches an ad on its id or its public id.
func byAnyID(adID string) func(*models.Ad) bool {
	return func(ad *models.Ad) bool { return ad.ID == adID || ad.PublicID == adID }
}

// locate finds the store holding the first ad accepted by match.
func (s *AdService) locate(ctx context.Context, match func(*models.Ad) bool) (string, error) {
	owners, err := s.store.Owners(ctx)
	if err != nil {
		return "", fmt.Errorf("list owners: %w", err)
	}
	for _, owner := range owners {
		list, err := s.store.List(ctx, owner)
		if err != nil {
			s.logger.Warn(ctx, "owner store unreadable", "owner", owner, "error", err)
			continue
		}
		for i := range list {
			if match(&list[i]) {
				return owner, nil
			}
		}
	}
	return "", common.ErrNotFound
}

// modify applies a non-owner flag write to the ad adID under its owner's
// lock. The version is left alone.
func (s *AdService) modify(ctx context.Context, adID string, fn func(ctx context.Context, ad *models.Ad) error) (*models.Ad, error) {
	return s.modifyWhere(ctx, byAnyID(adID), fn)
}

func (s *AdService) modifyWhere(ctx context.Context, match func(*models.Ad) bool, fn func(ctx context.Context, ad *models.Ad) error) (*models.Ad, error) {
	owner, err := s.locate(ctx, match)
	if err != nil {
		return nil, err
	}

	unlock, err := s.locks.lock(ctx, owner)
	if err != nil {
		return nil, err
	}
	defer unlock()

	list, err := s.store.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	var ad *models.Ad
	for i := range list {
		if match(&list[i]) {
			ad = &list[i]
			break
		}
	}
	if ad == nil {
		return nil, common.ErrNotFound
	}

	if err := fn(ctx, ad); err != nil {
		return nil, err
	}
	ad.UpdatedAt = s.now()
	if err := s.store.Replace(ctx, owner, ad); err != nil {
		return nil, fmt.Errorf("replace ad: %w", err)
	}
	return ad, nil
}

func (s *AdService) uploadSnapshot(ctx context.Context, ad *models.Ad) error {
	body, err := json.Marshal(snapshotOf(ad))
	if err != nil {
		return err
	}
	if err := s.cloud.Put(ctx, cloud.ListingKey(ad.PublicID), body, "application/json"); err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	return nil
}

func (s *AdService) removeFromCloud(ctx context.Context, ad *models.Ad) error {
	if err := s.cloud.Delete(ctx, cloud.ListingKey(ad.PublicID)); err != nil {
		return fmt.Errorf("delete cloud copy: %w", err)
	}
	if err := s.registrar.Unregister(ctx, ad.PublicID); err != nil {
		return fmt.Errorf("unregister: %w", err)
	}
	return nil
}

// discardCloudCopy removes the snapshot and registration of a sync that was
// not stored. It runs on its own deadline since ctx may already be done.
func (s *AdService) discardCloudCopy(ctx context.Context, ad *models.Ad) {
	cctx, cancel := s.syncBound(context.WithoutCancel(ctx))
	defer cancel()
	if err := s.removeFromCloud(cctx, ad); err != nil {
		s.logger.Error(ctx, "orphaned cloud copy", "owner", ad.SellerID, "public_id", ad.PublicID, "error", err)
		return
	}
	s.logger.Warn(ctx, "sync rolled back", "owner", ad.SellerID, "public_id", ad.PublicID)
}

// syncBound bounds a whole sync or unsync call, owner lock wait included.
func (s *AdService) syncBound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.syncTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.syncTimeout)
}

// withTimeout runs a network-bound step under the sync timeout. Any failure
// is reported as common.ErrTransient.
func (s *AdService) withTimeout(ctx context.Context, fn func(ctx context.Context) error) error {
	return runTransient(ctx, s.syncTimeout, fn)
}

func runTransient(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := fn(ctx); err != nil {
		return fmt.Errorf("%w: %v", common.ErrTransient, err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrTransient, err)
	}
	return nil
}

// listingSnapshot is the public document uploaded for a synced ad.
type listingSnapshot struct {
	PublicID  string    `json:"public_id"`
	SellerID  string    `json:"seller_id"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	models.Content
}

func snapshotOf(ad *models.Ad) listingSnapshot {
	return listingSnapshot{
		PublicID:  ad.PublicID,
		SellerID:  ad.SellerID,
		Version:   ad.Version,
		CreatedAt: ad.CreatedAt,
		Content:   ad.Content,
	}
}
