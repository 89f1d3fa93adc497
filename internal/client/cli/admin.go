package cli

import (
	"context"
	"fmt"
	"sort"

	gs "github.com/dmitrijs2005/gophmarket/internal/server/grpc"
	"github.com/dmitrijs2005/gophmarket/internal/server/models"
)

func (a *App) Takedown(ctx context.Context, args []string) error {
	id, err := a.arg(args, 0, "Enter ad id or public id to take down")
	if err != nil {
		return err
	}
	reason, err := a.rest(args, 1, "Reason")
	if err != nil {
		return err
	}

	var resp *gs.AdResponse
	err = a.call(ctx, func(ctx context.Context) error {
		resp, err = a.api.TakedownListing(ctx, &gs.TakedownRequest{AdID: id, Reason: reason})
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Ad %s taken down\n", resp.Ad.ID)
	return nil
}

func (a *App) moderate(ctx context.Context, args []string, verb string,
	rpc func(ctx context.Context, in *gs.ModerationRequest) (*gs.AdResponse, error)) error {

	id, err := a.arg(args, 0, "Enter ad id or public id to "+verb)
	if err != nil {
		return err
	}
	var resp *gs.AdResponse
	err = a.call(ctx, func(ctx context.Context) error {
		resp, err = rpc(ctx, &gs.ModerationRequest{AdID: id})
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Done: %s %s\n", verb, resp.Ad.ID)
	return nil
}

func (a *App) Dismiss(ctx context.Context, args []string) error {
	return a.moderate(ctx, args, "dismiss report", func(ctx context.Context, in *gs.ModerationRequest) (*gs.AdResponse, error) {
		return a.api.DismissReport(ctx, in)
	})
}

func (a *App) ResetBoost(ctx context.Context, args []string) error {
	return a.moderate(ctx, args, "reset boost", func(ctx context.Context, in *gs.ModerationRequest) (*gs.AdResponse, error) {
		return a.api.ResetBoost(ctx, in)
	})
}

func (a *App) Dashboard(ctx context.Context, _ []string) error {
	var resp *gs.DashboardResponse
	err := a.call(ctx, func(ctx context.Context) error {
		var err error
		resp, err = a.api.GetAdminDashboardData(ctx)
		return err
	})
	if err != nil {
		return err
	}

	d := resp.Dashboard
	fmt.Fprintf(a.out, "Users: %d  Ads: %d  Unreadable stores: %d\n", d.TotalUsers, d.TotalAds, d.SkippedStores)

	statuses := make([]string, 0, len(d.ByStatus))
	for s := range d.ByStatus {
		statuses = append(statuses, string(s))
	}
	sort.Strings(statuses)
	for _, s := range statuses {
		fmt.Fprintf(a.out, "  %-9s %d\n", s, d.ByStatus[models.SyncStatus(s)])
	}

	fmt.Fprintln(a.out, "Flagged:")
	printAds(a.out, d.FlaggedAds)

	fmt.Fprintln(a.out, "Recent actions:")
	for _, e := range d.RecentAudit {
		fmt.Fprintf(a.out, "  %s %s %s %s %s\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.AdminUsername, e.Action, e.TargetID, e.Reason)
	}
	return nil
}
