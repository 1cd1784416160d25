package models

import "time"

// StudentSession is a best-effort audit copy of an issued session token.
// The signed token remains the sole source of truth; rows in this table are
// observational and their absence never blocks a login or a verify.
type StudentSession struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	Token     string    `db:"token" json:"token"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	IPAddress string    `db:"ip_address" json:"ip_address"`
	UserAgent string    `db:"user_agent" json:"user_agent"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
