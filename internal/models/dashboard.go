package models

import "time"

// DashboardOverview aggregates the admin landing-page counters. Each block
// is gathered independently; a failed read leaves its block zeroed rather
// than failing the whole payload.
type DashboardOverview struct {
	Students    DashboardStudents `json:"students"`
	Sessions    DashboardSessions `json:"sessions"`
	Files       DashboardFiles    `json:"files"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// DashboardStudents summarises the roster.
type DashboardStudents struct {
	TotalActive int            `json:"total_active"`
	ByForm      map[string]int `json:"by_form,omitempty"`
}

// DashboardSessions summarises live portal sessions.
type DashboardSessions struct {
	Active int `json:"active"`
}

// DashboardFiles summarises published school files.
type DashboardFiles struct {
	Total      int                  `json:"total"`
	ByCategory map[FileCategory]int `json:"by_category,omitempty"`
}
