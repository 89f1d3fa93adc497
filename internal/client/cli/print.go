package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophmarket/internal/server/models"
)

func printAds(w io.Writer, ads []models.Ad) {
	if len(ads) == 0 {
		fmt.Fprintln(w, "(no ads)")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSELLER\tSTATUS\tVER\tBOOST\tPRICE\tTITLE\tNOTE")
	for _, ad := range ads {
		note := ""
		switch {
		case ad.TakedownReason != "":
			note = "taken down: " + ad.TakedownReason
		case ad.IsFlagged:
			note = "reported: " + ad.ReportReason
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%.2f %s\t%s\t%s\n",
			ad.ID, ad.SellerID, ad.SyncStatus, ad.Version, ad.BoostScore, ad.Price, ad.Currency, ad.Title, note)
	}
	tw.Flush()
}
