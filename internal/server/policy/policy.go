// Package policy maps account tiers to the administrative operations they
// may perform. Services ask the Engine instead of comparing tiers inline.
package policy

import (
	"fmt"

	"github.com/dmitrijs2005/gophmarket/internal/common"
	"github.com/dmitrijs2005/gophmarket/internal/server/models"
)

// Operation is a capability checked by the Engine.
type Operation string

const (
	OpTakedown      Operation = "takedown"
	OpDismissReport Operation = "dismiss_report"
	OpResetBoost    Operation = "reset_boost"
	OpViewDashboard Operation = "view_dashboard"
)

// Engine is an immutable tier → operations table.
type Engine struct {
	grants map[models.Tier]map[Operation]bool
}

// New builds an Engine from an explicit grant table.
func New(grants map[models.Tier][]Operation) *Engine {
	e := &Engine{grants: make(map[models.Tier]map[Operation]bool, len(grants))}
	for tier, ops := range grants {
		set := make(map[Operation]bool, len(ops))
		for _, op := range ops {
			set[op] = true
		}
		e.grants[tier] = set
	}
	return e
}

// Default is the production grant table: moderators triage reports and read
// the dashboard, privileged admins may additionally take listings down and
// reset boosts. Members have no administrative capability.
func Default() *Engine {
	return New(map[models.Tier][]Operation{
		models.TierModerator:  {OpDismissReport, OpViewDashboard},
		models.TierPrivileged: {OpTakedown, OpDismissReport, OpResetBoost, OpViewDashboard},
	})
}

// Allowed reports whether tier may perform op.
func (e *Engine) Allowed(tier models.Tier, op Operation) bool {
	return e.grants[tier][op]
}

// Authorize returns an error wrapping common.ErrAuthorization when tier may
// not perform op.
func (e *Engine) Authorize(tier models.Tier, op Operation) error {
	if !e.Allowed(tier, op) {
		return fmt.Errorf("%w: tier %q may not %s", common.ErrAuthorization, tier, op)
	}
	return nil
}
