package models

// Dashboard is the admin overview returned by GetAdminDashboardData.
type Dashboard struct {
	TotalAds    int                `json:"total_ads"`
	ByStatus    map[SyncStatus]int `json:"by_status"`
	FlaggedAds  []Ad               `json:"flagged_ads"`
	TotalUsers  int                `json:"total_users"`
	RecentAudit []AuditEntry       `json:"recent_audit"`
	// SkippedStores counts owner stores that could not be read.
	SkippedStores int `json:"skipped_stores"`
}
