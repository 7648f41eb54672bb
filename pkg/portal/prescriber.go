package portal

import (
	"fmt"
	"time"
)

// PrescriberStatus is the approval state of a prescriber listing.
type PrescriberStatus string

const (
	PrescriberPending  PrescriberStatus = "pending"
	PrescriberApproved PrescriberStatus = "approved"
	PrescriberRejected PrescriberStatus = "rejected"
)

// Prescriber is a directory listing. Created pending via a public application,
// or directly approved and verified when added by an admin. Verification is a
// flag toggled independently of the approval status.
type Prescriber struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	Credentials  string           `json:"credentials,omitempty"`
	Email        string           `json:"email"`
	Phone        string           `json:"phone,omitempty"`
	Website      string           `json:"website,omitempty"`
	Practice     string           `json:"practice,omitempty"`
	Address      string           `json:"address,omitempty"`
	City         string           `json:"city"`
	State        string           `json:"state"`
	Country      string           `json:"country"`
	Telemedicine bool             `json:"telemedicine"`
	Insurance    bool             `json:"insurance"`
	Status       PrescriberStatus `json:"status"`
	Verified     bool             `json:"verified"`
	CreatedAt    time.Time        `json:"created_at"`
}

// PrescriberAction is the closed set of admin actions on a prescriber.
type PrescriberAction string

const (
	PrescriberActionApprove  PrescriberAction = "approve"
	PrescriberActionReject   PrescriberAction = "reject"
	PrescriberActionVerify   PrescriberAction = "verify"
	PrescriberActionUnverify PrescriberAction = "unverify"
)

// ParsePrescriberAction validates an action tag against the closed enum.
func ParsePrescriberAction(s string) (PrescriberAction, error) {
	switch a := PrescriberAction(s); a {
	case PrescriberActionApprove, PrescriberActionReject, PrescriberActionVerify, PrescriberActionUnverify:
		return a, nil
	}
	return "", fmt.Errorf("unknown prescriber action %q", s)
}

// PrescriberChange is the single state change produced by a moderation action.
type PrescriberChange struct {
	Status   *PrescriberStatus
	Verified *bool
}

// ApplyPrescriberAction computes the state change for an action against the
// prescriber's current state. Approve and reject are legal only from pending;
// verify and unverify are legal from any status.
func ApplyPrescriberAction(p *Prescriber, action PrescriberAction) (PrescriberChange, error) {
	switch action {
	case PrescriberActionApprove:
		if p.Status != PrescriberPending {
			return PrescriberChange{}, fmt.Errorf("%w: cannot approve %s prescriber", ErrIllegalTransition, p.Status)
		}
		s := PrescriberApproved
		return PrescriberChange{Status: &s}, nil
	case PrescriberActionReject:
		if p.Status != PrescriberPending {
			return PrescriberChange{}, fmt.Errorf("%w: cannot reject %s prescriber", ErrIllegalTransition, p.Status)
		}
		s := PrescriberRejected
		return PrescriberChange{Status: &s}, nil
	case PrescriberActionVerify:
		v := true
		return PrescriberChange{Verified: &v}, nil
	case PrescriberActionUnverify:
		v := false
		return PrescriberChange{Verified: &v}, nil
	}
	return PrescriberChange{}, fmt.Errorf("unknown prescriber action %q", action)
}
