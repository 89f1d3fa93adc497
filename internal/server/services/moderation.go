package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophmarket/internal/common"
	"github.com/dmitrijs2005/gophmarket/internal/logging"
	"github.com/dmitrijs2005/gophmarket/internal/server/models"
	"github.com/dmitrijs2005/gophmarket/internal/server/policy"
	"github.com/dmitrijs2005/gophmarket/internal/server/repositories/audit"
	"github.com/dmitrijs2005/gophmarket/internal/server/repositories/users"
	"github.com/google/uuid"
)

const dashboardAuditLimit = 20

// ModerationService changes the visibility of listings on behalf of admins.
// It writes status flags only and records every action in the audit log.
type ModerationService struct {
	ads       *AdService
	discovery *DiscoveryService
	users     users.Repository
	audit     audit.Repository
	policy    *policy.Engine
	timeout   time.Duration
	logger    logging.Logger
}

func NewModerationService(a *AdService, d *DiscoveryService, u users.Repository, au audit.Repository,
	p *policy.Engine, timeout time.Duration, l logging.Logger) *ModerationService {
	return &ModerationService{
		ads:       a,
		discovery: d,
		users:     u,
		audit:     au,
		policy:    p,
		timeout:   timeout,
		logger:    l.With("module", "moderation"),
	}
}

// authorize resolves the admin and checks op against the policy.
func (m *ModerationService) authorize(ctx context.Context, adminID string, op policy.Operation) (*models.User, error) {
	admin, err := m.users.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown account", common.ErrAuthorization)
		}
		return nil, err
	}
	if err := m.policy.Authorize(admin.Tier, op); err != nil {
		return nil, err
	}
	return admin, nil
}

// run executes fn under the moderation timeout. Deadline expiry surfaces as
// common.ErrTransient; other errors keep their class.
func (m *ModerationService) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	err := fn(ctx)
	if err != nil && ctx.Err() != nil {
		return fmt.Errorf("%w: %v", common.ErrTransient, ctx.Err())
	}
	return err
}

func (m *ModerationService) record(ctx context.Context, admin *models.User, action models.AuditAction, target, reason string) error {
	entry := models.AuditEntry{
		ID:            uuid.NewString(),
		Timestamp:     m.ads.now(),
		AdminID:       admin.ID,
		AdminUsername: admin.UserName,
		Action:        action,
		TargetID:      target,
		Reason:        reason,
	}
	if err := m.audit.Append(ctx, entry); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// audited records action for ad, whose write is already committed. When the
// append fails the write stays in place; the committed state is logged and
// the error is transient, since repeating the action is safe.
func (m *ModerationService) audited(ctx context.Context, admin *models.User, action models.AuditAction, ad *models.Ad, reason string) error {
	if err := m.record(ctx, admin, action, ad.ID, reason); err != nil {
		m.logger.Error(ctx, "moderation applied without audit entry",
			"admin", admin.UserName, "action", action, "ad", ad.ID, "owner", ad.SellerID,
			"status", ad.SyncStatus, "flagged", ad.IsFlagged, "boost_score", ad.BoostScore, "error", err)
		return fmt.Errorf("%w: %w", common.ErrTransient, err)
	}
	return nil
}

// Takedown hides a listing. Content is left untouched; the owner sees the ad
// with its takedown reason and may bring it back after editing it.
// Repeating a takedown replaces the reason and writes a new audit entry.
func (m *ModerationService) Takedown(ctx context.Context, adminID, adID, reason string) (*models.Ad, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: reason is required", common.ErrValidation)
	}
	admin, err := m.authorize(ctx, adminID, policy.OpTakedown)
	if err != nil {
		return nil, err
	}

	var ad *models.Ad
	err = m.run(ctx, func(ctx context.Context) error {
		ad, err = m.ads.modify(ctx, adID, func(ctx context.Context, ad *models.Ad) error {
			if ad.SyncStatus == models.StatusSynced {
				if err := m.ads.removeFromCloud(ctx, ad); err != nil {
					return fmt.Errorf("%w: %v", common.ErrTransient, err)
				}
				ad.ClearCloud()
			}
			if ad.SyncStatus != models.StatusTakedown {
				ad.TakedownVersion = ad.Version
			}
			ad.SyncStatus = models.StatusTakedown
			ad.TakedownReason = reason
			ad.IsFlagged = false
			ad.ReportReason = ""
			return nil
		})
		if err != nil {
			return err
		}
		return m.audited(ctx, admin, models.AuditTakedown, ad, reason)
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info(ctx, "ad taken down", "admin", admin.UserName, "ad", adID, "owner", ad.SellerID)
	return ad, nil
}

// DismissReport clears the flag raised by ReportAd.
func (m *ModerationService) DismissReport(ctx context.Context, adminID, adID string) (*models.Ad, error) {
	admin, err := m.authorize(ctx, adminID, policy.OpDismissReport)
	if err != nil {
		return nil, err
	}

	var ad *models.Ad
	err = m.run(ctx, func(ctx context.Context) error {
		ad, err = m.ads.modify(ctx, adID, func(ctx context.Context, ad *models.Ad) error {
			ad.IsFlagged = false
			ad.ReportReason = ""
			return nil
		})
		if err != nil {
			return err
		}
		return m.audited(ctx, admin, models.AuditDismissReport, ad, "")
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info(ctx, "report dismissed", "admin", admin.UserName, "ad", adID)
	return ad, nil
}

// ResetBoost sets the boost score of a listing back to zero.
func (m *ModerationService) ResetBoost(ctx context.Context, adminID, adID string) (*models.Ad, error) {
	admin, err := m.authorize(ctx, adminID, policy.OpResetBoost)
	if err != nil {
		return nil, err
	}

	var ad *models.Ad
	err = m.run(ctx, func(ctx context.Context) error {
		ad, err = m.ads.modify(ctx, adID, func(ctx context.Context, ad *models.Ad) error {
			ad.BoostScore = 0
			return nil
		})
		if err != nil {
			return err
		}
		return m.audited(ctx, admin, models.AuditResetBoost, ad, "")
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info(ctx, "boost reset", "admin", admin.UserName, "ad", adID)
	return ad, nil
}

// Dashboard summarises every owner store for admins.
func (m *ModerationService) Dashboard(ctx context.Context, adminID string) (*models.Dashboard, error) {
	if _, err := m.authorize(ctx, adminID, policy.OpViewDashboard); err != nil {
		return nil, err
	}

	dash := &models.Dashboard{
		ByStatus:    make(map[models.SyncStatus]int),
		FlaggedAds:  []models.Ad{},
		RecentAudit: []models.AuditEntry{},
	}

	err := m.run(ctx, func(ctx context.Context) error {
		stores, skipped, err := m.discovery.scan(ctx)
		if err != nil {
			return err
		}
		dash.SkippedStores = skipped
		for _, s := range stores {
			for _, ad := range s.ads {
				dash.TotalAds++
				dash.ByStatus[ad.SyncStatus]++
				if ad.IsFlagged {
					dash.FlaggedAds = append(dash.FlaggedAds, ad)
				}
			}
		}

		if dash.TotalUsers, err = m.users.Count(ctx); err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		if dash.RecentAudit, err = m.audit.List(ctx, dashboardAuditLimit); err != nil {
			return fmt.Errorf("list audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(dash.FlaggedAds, func(i, j int) bool {
		return dash.FlaggedAds[i].UpdatedAt.After(dash.FlaggedAds[j].UpdatedAt)
	})
	return dash, nil
}
