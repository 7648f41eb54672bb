// Package portal holds the domain types for the portal: submitted content,
// their status enums, and the legal moderation transitions per entity kind.
package portal

import (
	"errors"
	"fmt"
	"time"
)

// ErrIllegalTransition is returned when an action is recognized but not legal
// from the entity's current state.
var ErrIllegalTransition = errors.New("illegal state transition")

// ModerationStatus is the approval state of a submitted ledger entry.
type ModerationStatus string

const (
	LedgerPending  ModerationStatus = "pending"
	LedgerApproved ModerationStatus = "approved"
	LedgerRejected ModerationStatus = "rejected"
)

// ScaleMetrics are the self-reported wellbeing scales, each on 0–10.
type ScaleMetrics struct {
	Loved      int `json:"loved"`
	Suicidal   int `json:"suicidal"`
	Depression int `json:"depression"`
	Anxiety    int `json:"anxiety"`
	Hope       int `json:"hope"`
	Belonging  int `json:"belonging"`
}

// LedgerEntry is a user-submitted personal story with before/after wellbeing
// metrics. Created pending; only admin moderation moves it to a terminal state.
type LedgerEntry struct {
	ID          int64            `json:"id"`
	Story       string           `json:"story"`
	DisplayName string           `json:"display_name,omitempty"`
	IsAnonymous bool             `json:"is_anonymous"`
	Before      ScaleMetrics     `json:"before"`
	After       ScaleMetrics     `json:"after"`
	Status      ModerationStatus `json:"status"`
	Featured    bool             `json:"featured"`
	HeartCount  int64            `json:"heart_count"`
	CreatedAt   time.Time        `json:"created_at"`
}

// LedgerAction is the closed set of admin actions on a ledger entry.
type LedgerAction string

const (
	LedgerActionApprove   LedgerAction = "approve"
	LedgerActionReject    LedgerAction = "reject"
	LedgerActionFeature   LedgerAction = "feature"
	LedgerActionUnfeature LedgerAction = "unfeature"
)

// ParseLedgerAction validates an action tag against the closed enum.
func ParseLedgerAction(s string) (LedgerAction, error) {
	switch a := LedgerAction(s); a {
	case LedgerActionApprove, LedgerActionReject, LedgerActionFeature, LedgerActionUnfeature:
		return a, nil
	}
	return "", fmt.Errorf("unknown ledger action %q", s)
}

// LedgerChange is the single state change produced by a moderation action.
type LedgerChange struct {
	Status   *ModerationStatus
	Featured *bool
}

// ApplyLedgerAction computes the state change for an action against the
// entry's current state. Approve and reject are legal only from pending;
// featuring toggles an independent flag but only on approved entries.
func ApplyLedgerAction(e *LedgerEntry, action LedgerAction) (LedgerChange, error) {
	switch action {
	case LedgerActionApprove:
		if e.Status != LedgerPending {
			return LedgerChange{}, fmt.Errorf("%w: cannot approve %s entry", ErrIllegalTransition, e.Status)
		}
		s := LedgerApproved
		return LedgerChange{Status: &s}, nil
	case LedgerActionReject:
		if e.Status != LedgerPending {
			return LedgerChange{}, fmt.Errorf("%w: cannot reject %s entry", ErrIllegalTransition, e.Status)
		}
		s := LedgerRejected
		return LedgerChange{Status: &s}, nil
	case LedgerActionFeature:
		if e.Status != LedgerApproved {
			return LedgerChange{}, fmt.Errorf("%w: only approved entries can be featured", ErrIllegalTransition)
		}
		f := true
		return LedgerChange{Featured: &f}, nil
	case LedgerActionUnfeature:
		if e.Status != LedgerApproved {
			return LedgerChange{}, fmt.Errorf("%w: only approved entries can be unfeatured", ErrIllegalTransition)
		}
		f := false
		return LedgerChange{Featured: &f}, nil
	}
	return LedgerChange{}, fmt.Errorf("unknown ledger action %q", action)
}
