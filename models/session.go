package models

import "time"

type Branch struct {
	ID   int64  `json:"branch_id"`
	Name string `json:"branch_name"`
}

type Session struct {
	ID         string    `json:"id"`
	StaffID    string    `json:"staff_id"`
	StaffName  string    `json:"staff_name"`
	BranchID   int64     `json:"branch_id"`
	BranchName string    `json:"branch_name"`
	StartedAt  time.Time `json:"started_at"`
}

// PendingLogin holds a staff member whose credentials were accepted but who
// has several branches and has not chosen one yet.
type PendingLogin struct {
	StaffID   string   `json:"staff_id"`
	StaffName string   `json:"staff_name"`
	Branches  []Branch `json:"branches"`
}

func (p *PendingLogin) Branch(id int64) (Branch, bool) {
	for _, b := range p.Branches {
		if b.ID == id {
			return b, true
		}
	}
	return Branch{}, false
}

type LoginStatus string

const (
	LoginActive        LoginStatus = "active"
	LoginPendingBranch LoginStatus = "pending_branch"
)

type LoginResult struct {
	Status   LoginStatus `json:"status"`
	Session  *Session    `json:"session,omitempty"`
	Branches []Branch    `json:"branches,omitempty"`
	Token    string      `json:"token,omitempty"`

	// CatalogLoaded is false when the branch catalog could not be loaded at
	// login; the kiosk then calls GET /catalog.
	CatalogLoaded bool `json:"catalog_loaded"`
}
