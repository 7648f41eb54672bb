package portal

import (
	"fmt"
	"time"
)

// FeedbackType categorizes a feedback message.
type FeedbackType string

const (
	FeedbackQuestion   FeedbackType = "question"
	FeedbackFeedback   FeedbackType = "feedback"
	FeedbackSuggestion FeedbackType = "suggestion"
	FeedbackIssue      FeedbackType = "issue"
	FeedbackOther      FeedbackType = "other"
)

// ValidFeedbackType reports whether t is in the closed type set.
func ValidFeedbackType(t FeedbackType) bool {
	switch t {
	case FeedbackQuestion, FeedbackFeedback, FeedbackSuggestion, FeedbackIssue, FeedbackOther:
		return true
	}
	return false
}

// FeedbackStatus is the triage state of a feedback message.
type FeedbackStatus string

const (
	FeedbackUnread   FeedbackStatus = "unread"
	FeedbackRead     FeedbackStatus = "read"
	FeedbackArchived FeedbackStatus = "archived"
)

// Feedback is a message from the public feedback form. Unlike the moderation
// pipelines its workflow is an inbox: it may be marked unread again from any
// state.
type Feedback struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name,omitempty"`
	Email     string         `json:"email,omitempty"`
	Type      FeedbackType   `json:"type"`
	Message   string         `json:"message"`
	Status    FeedbackStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

// FeedbackAction is the closed set of admin actions on a feedback message.
type FeedbackAction string

const (
	FeedbackActionRead    FeedbackAction = "read"
	FeedbackActionUnread  FeedbackAction = "unread"
	FeedbackActionArchive FeedbackAction = "archive"
)

// ParseFeedbackAction validates an action tag against the closed enum.
func ParseFeedbackAction(s string) (FeedbackAction, error) {
	switch a := FeedbackAction(s); a {
	case FeedbackActionRead, FeedbackActionUnread, FeedbackActionArchive:
		return a, nil
	}
	return "", fmt.Errorf("unknown feedback action %q", s)
}

// ApplyFeedbackAction computes the next status for an action against the
// message's current state. Read is legal from unread, archive from unread or
// read, and unread from any state.
func ApplyFeedbackAction(f *Feedback, action FeedbackAction) (FeedbackStatus, error) {
	switch action {
	case FeedbackActionRead:
		if f.Status != FeedbackUnread {
			return "", fmt.Errorf("%w: cannot mark %s feedback as read", ErrIllegalTransition, f.Status)
		}
		return FeedbackRead, nil
	case FeedbackActionUnread:
		return FeedbackUnread, nil
	case FeedbackActionArchive:
		if f.Status == FeedbackArchived {
			return "", fmt.Errorf("%w: feedback already archived", ErrIllegalTransition)
		}
		return FeedbackArchived, nil
	}
	return "", fmt.Errorf("unknown feedback action %q", action)
}
