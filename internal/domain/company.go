package domain

import "time"

// Company is a tenant account that must be approved by an administrator.
// A rejected company is deleted, so the only stored states are pending and approved.
type Company struct {
	ID           int64
	Name         string
	PasswordHash string
	Approved     bool
	CreatedAt    time.Time
}

// Pending reports whether the company still awaits a decision.
func (c *Company) Pending() bool {
	return !c.Approved
}
