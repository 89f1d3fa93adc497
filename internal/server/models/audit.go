package models

import "time"

// AuditAction names a moderation action recorded in the audit log.
type AuditAction string

const (
	AuditTakedown      AuditAction = "takedown"
	AuditDismissReport AuditAction = "dismiss_report"
	AuditResetBoost    AuditAction = "reset_boost"
)

// AuditEntry is one append-only admin audit-log record.
type AuditEntry struct {
	ID            string      `json:"id"`
	Timestamp     time.Time   `json:"timestamp"`
	AdminID       string      `json:"admin_id"`
	AdminUsername string      `json:"admin_username"`
	Action        AuditAction `json:"action"`
	TargetID      string      `json:"target_id"`
	Reason        string      `json:"reason,omitempty"`
}
