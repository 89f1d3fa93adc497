package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophmarket/internal/netx"
	gs "github.com/dmitrijs2005/gophmarket/internal/server/grpc"
	"github.com/dmitrijs2005/gophmarket/internal/server/models"
)

// arg returns args[i] or prompts for it.
func (a *App) arg(args []string, i int, prompt string) (string, error) {
	if len(args) > i {
		return args[i], nil
	}
	v, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", errors.New("value is required")
	}
	return v, nil
}

// rest joins args[i:] or prompts when there are none.
func (a *App) rest(args []string, i int, prompt string) (string, error) {
	if len(args) > i {
		return strings.Join(args[i:], " "), nil
	}
	return a.arg(nil, 0, prompt)
}

func (a *App) readContent() (models.Content, error) {
	var c models.Content
	var err error

	if c.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return c, err
	}
	if c.Description, err = GetMultiline(a.reader, "Description", a.out); err != nil {
		return c, err
	}
	if c.CategoryPath, err = GetCategoryPath(a.reader, "Category (e.g. sports/bikes)", a.out); err != nil {
		return c, err
	}

	price, err := getSimpleText(a.reader, "Price", a.out)
	if err != nil {
		return c, err
	}
	if c.Price, err = strconv.ParseFloat(price, 64); err != nil {
		return c, fmt.Errorf("invalid price %q", price)
	}

	if c.Currency, err = getSimpleText(a.reader, "Currency", a.out); err != nil {
		return c, err
	}

	media, err := getSimpleText(a.reader, "Image URL (optional)", a.out)
	if err != nil {
		return c, err
	}
	if media != "" {
		c.Media = []models.Media{{URL: media, Type: "image"}}
	}
	return c, nil
}

func (a *App) Create(ctx context.Context, _ []string) error {
	content, err := a.readContent()
	if err != nil {
		return err
	}

	var resp *gs.AdResponse
	err = a.call(ctx, func(ctx context.Context) error {
		resp, err = a.api.CreateAd(ctx, &gs.CreateAdRequest{Content: content})
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created ad %s\n", resp.Ad.ID)
	return nil
}

func (a *App) myAds(ctx context.Context) ([]models.Ad, error) {
	var resp *gs.AdsResponse
	err := a.call(ctx, func(ctx context.Context) error {
		var err error
		resp, err = a.api.GetMyAds(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp.Ads, nil
}

// Edit changes the title and price of one of the caller's ads. Empty input
// keeps the current value.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := a.arg(args, 0, "Enter ad id to edit")
	if err != nil {
		return err
	}

	mine, err := a.myAds(ctx)
	if err != nil {
		return err
	}
	var ad *models.Ad
	for i := range mine {
		if mine[i].ID == id {
			ad = &mine[i]
			break
		}
	}
	if ad == nil {
		return fmt.Errorf("ad %s not found", id)
	}

	title, err := getSimpleText(a.reader, fmt.Sprintf("Title [%s]", ad.Title), a.out)
	if err != nil {
		return err
	}
	if title != "" {
		ad.Title = title
	}
	price, err := getSimpleText(a.reader, fmt.Sprintf("Price [%.2f]", ad.Price), a.out)
	if err != nil {
		return err
	}
	if price != "" {
		if ad.Price, err = strconv.ParseFloat(price, 64); err != nil {
			return fmt.Errorf("invalid price %q", price)
		}
	}

	var resp *gs.UpdateAdResponse
	err = a.call(ctx, func(ctx context.Context) error {
		resp, err = a.api.UpdateAd(ctx, &gs.UpdateAdRequest{Ad: *ad})
		return err
	})
	if err != nil {
		return err
	}
	if resp.ConflictResolved {
		fmt.Fprintln(a.out, "Note: the ad changed meanwhile, your edit was applied on top")
	}
	fmt.Fprintf(a.out, "Updated ad %s to version %d\n", resp.Ad.ID, resp.Ad.Version)
	return nil
}

func (a *App) Mine(ctx context.Context, _ []string) error {
	mine, err := a.myAds(ctx)
	if err != nil {
		return err
	}
	printAds(a.out, mine)
	return nil
}

func (a *App) Feed(ctx context.Context, _ []string) error {
	var resp *gs.AdsResponse
	err := a.call(ctx, func(ctx context.Context) error {
		var err error
		resp, err = a.api.GetAds(ctx)
		return err
	})
	if err != nil {
		return err
	}
	printAds(a.out, resp.Ads)
	return nil
}

// transition runs one of the lifecycle RPCs addressed by ad id.
func (a *App) transition(ctx context.Context, args []string, verb string,
	rpc func(ctx context.Context, req *gs.AdRequest) (*models.Ad, error)) error {

	id, err := a.arg(args, 0, "Enter ad id to "+verb)
	if err != nil {
		return err
	}

	var ad *models.Ad
	err = a.call(ctx, func(ctx context.Context) error {
		ad, err = rpc(ctx, &gs.AdRequest{ID: id})
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Ad %s is now %s\n", ad.ID, ad.SyncStatus)
	return nil
}

func adOf(resp *gs.AdResponse, err error) (*models.Ad, error) {
	if err != nil {
		return nil, err
	}
	return resp.Ad, nil
}

func (a *App) Publish(ctx context.Context, args []string) error {
	return a.transition(ctx, args, "publish", func(ctx context.Context, req *gs.AdRequest) (*models.Ad, error) {
		return adOf(a.api.PublishAd(ctx, req))
	})
}

func (a *App) Unpublish(ctx context.Context, args []string) error {
	return a.transition(ctx, args, "unpublish", func(ctx context.Context, req *gs.AdRequest) (*models.Ad, error) {
		return adOf(a.api.UnpublishAd(ctx, req))
	})
}

func (a *App) Sync(ctx context.Context, args []string) error {
	return a.transition(ctx, args, "sync", func(ctx context.Context, req *gs.AdRequest) (*models.Ad, error) {
		resp, err := a.api.SyncAdToCloud(ctx, req)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(a.out, "Listing URL: %s\n", resp.Ad.CloudURL)
		return resp.Ad, nil
	})
}

func (a *App) Unsync(ctx context.Context, args []string) error {
	return a.transition(ctx, args, "unsync", func(ctx context.Context, req *gs.AdRequest) (*models.Ad, error) {
		return adOf(a.api.UnsyncAdFromCloud(ctx, req))
	})
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.arg(args, 0, "Enter ad id to delete")
	if err != nil {
		return err
	}
	err = a.call(ctx, func(ctx context.Context) error {
		_, err := a.api.DeleteAd(ctx, &gs.AdRequest{ID: id})
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted ad %s\n", id)
	return nil
}

func (a *App) Boost(ctx context.Context, args []string) error {
	id, err := a.arg(args, 0, "Enter ad id to boost")
	if err != nil {
		return err
	}
	raw, err := a.arg(args, 1, "Boost amount")
	if err != nil {
		return err
	}
	amount, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", raw)
	}

	var resp *gs.AdResponse
	err = a.call(ctx, func(ctx context.Context) error {
		resp, err = a.api.BoostAd(ctx, &gs.BoostAdRequest{ID: id, Amount: amount})
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Ad %s boost score is %d\n", resp.Ad.ID, resp.Ad.BoostScore)
	return nil
}

func (a *App) Report(ctx context.Context, args []string) error {
	id, err := a.arg(args, 0, "Enter public id of the ad to report")
	if err != nil {
		return err
	}
	reason, err := a.rest(args, 1, "Reason")
	if err != nil {
		return err
	}
	err = a.call(ctx, func(ctx context.Context) error {
		_, err := a.api.ReportAd(ctx, &gs.ReportAdRequest{AdID: id, Reason: reason})
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Report sent")
	return nil
}

func (a *App) Follow(ctx context.Context, args []string) error {
	seller, err := a.arg(args, 0, "Enter seller id to follow")
	if err != nil {
		return err
	}
	return a.call(ctx, func(ctx context.Context) error {
		_, err := a.api.Follow(ctx, &gs.FollowRequest{SellerID: seller})
		return err
	})
}

func (a *App) Unfollow(ctx context.Context, args []string) error {
	seller, err := a.arg(args, 0, "Enter seller id to unfollow")
	if err != nil {
		return err
	}
	return a.call(ctx, func(ctx context.Context) error {
		_, err := a.api.Unfollow(ctx, &gs.FollowRequest{SellerID: seller})
		return err
	})
}

// fetchSnapshot is a test seam for netx.FetchPresignedURL.
var fetchSnapshot = netx.FetchPresignedURL

// View shows one ad from the feed. Synced ads are read from their cloud
// snapshot, which is what other marketplaces see.
func (a *App) View(ctx context.Context, args []string) error {
	id, err := a.arg(args, 0, "Enter ad id or public id to view")
	if err != nil {
		return err
	}

	var resp *gs.AdsResponse
	err = a.call(ctx, func(ctx context.Context) error {
		resp, err = a.api.GetAds(ctx)
		return err
	})
	if err != nil {
		return err
	}

	for _, ad := range resp.Ads {
		if ad.ID != id && ad.PublicID != id {
			continue
		}
		if ad.CloudURL == "" {
			printAds(a.out, []models.Ad{ad})
			return nil
		}

		fetchCtx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
		defer cancel()
		body, err := fetchSnapshot(fetchCtx, ad.CloudURL)
		if err != nil {
			return fmt.Errorf("fetch snapshot: %w", err)
		}
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, body, "", "  "); err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		fmt.Fprintln(a.out, pretty.String())
		return nil
	}
	return fmt.Errorf("ad %s is not in the feed", id)
}
