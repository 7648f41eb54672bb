package portal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLedgerAction(t *testing.T) {
	for _, tag := range []string{"approve", "reject", "feature", "unfeature"} {
		got, err := ParseLedgerAction(tag)
		require.NoError(t, err)
		assert.Equal(t, LedgerAction(tag), got)
	}

	_, err := ParseLedgerAction("publish")
	assert.Error(t, err)
	_, err = ParseLedgerAction("")
	assert.Error(t, err)
}

func TestApplyLedgerAction_ApproveAndReject(t *testing.T) {
	entry := &LedgerEntry{Status: LedgerPending}

	change, err := ApplyLedgerAction(entry, LedgerActionApprove)
	require.NoError(t, err)
	require.NotNil(t, change.Status)
	assert.Equal(t, LedgerApproved, *change.Status)
	assert.Nil(t, change.Featured)

	change, err = ApplyLedgerAction(&LedgerEntry{Status: LedgerPending}, LedgerActionReject)
	require.NoError(t, err)
	assert.Equal(t, LedgerRejected, *change.Status)
}

func TestApplyLedgerAction_TerminalStatesAreFinal(t *testing.T) {
	for _, status := range []ModerationStatus{LedgerApproved, LedgerRejected} {
		for _, action := range []LedgerAction{LedgerActionApprove, LedgerActionReject} {
			_, err := ApplyLedgerAction(&LedgerEntry{Status: status}, action)
			assert.ErrorIs(t, err, ErrIllegalTransition, "status=%s action=%s", status, action)
		}
	}
}

func TestApplyLedgerAction_FeatureOnlyWhenApproved(t *testing.T) {
	change, err := ApplyLedgerAction(&LedgerEntry{Status: LedgerApproved}, LedgerActionFeature)
	require.NoError(t, err)
	require.NotNil(t, change.Featured)
	assert.True(t, *change.Featured)
	assert.Nil(t, change.Status, "featuring is not a status transition")

	change, err = ApplyLedgerAction(&LedgerEntry{Status: LedgerApproved, Featured: true}, LedgerActionUnfeature)
	require.NoError(t, err)
	assert.False(t, *change.Featured)

	for _, status := range []ModerationStatus{LedgerPending, LedgerRejected} {
		_, err := ApplyLedgerAction(&LedgerEntry{Status: status}, LedgerActionFeature)
		assert.ErrorIs(t, err, ErrIllegalTransition, "status=%s", status)
	}
}

func TestApplyPrescriberAction(t *testing.T) {
	change, err := ApplyPrescriberAction(&Prescriber{Status: PrescriberPending}, PrescriberActionApprove)
	require.NoError(t, err)
	assert.Equal(t, PrescriberApproved, *change.Status)

	change, err = ApplyPrescriberAction(&Prescriber{Status: PrescriberPending}, PrescriberActionReject)
	require.NoError(t, err)
	assert.Equal(t, PrescriberRejected, *change.Status)

	_, err = ApplyPrescriberAction(&Prescriber{Status: PrescriberApproved}, PrescriberActionApprove)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestApplyPrescriberAction_VerifyFromAnyStatus(t *testing.T) {
	for _, status := range []PrescriberStatus{PrescriberPending, PrescriberApproved, PrescriberRejected} {
		change, err := ApplyPrescriberAction(&Prescriber{Status: status}, PrescriberActionVerify)
		require.NoError(t, err, "status=%s", status)
		assert.True(t, *change.Verified)
		assert.Nil(t, change.Status)

		change, err = ApplyPrescriberAction(&Prescriber{Status: status, Verified: true}, PrescriberActionUnverify)
		require.NoError(t, err)
		assert.False(t, *change.Verified)
	}
}

func TestApplyFeedbackAction(t *testing.T) {
	next, err := ApplyFeedbackAction(&Feedback{Status: FeedbackUnread}, FeedbackActionRead)
	require.NoError(t, err)
	assert.Equal(t, FeedbackRead, next)

	_, err = ApplyFeedbackAction(&Feedback{Status: FeedbackRead}, FeedbackActionRead)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	_, err = ApplyFeedbackAction(&Feedback{Status: FeedbackArchived}, FeedbackActionRead)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	for _, status := range []FeedbackStatus{FeedbackUnread, FeedbackRead} {
		next, err := ApplyFeedbackAction(&Feedback{Status: status}, FeedbackActionArchive)
		require.NoError(t, err, "status=%s", status)
		assert.Equal(t, FeedbackArchived, next)
	}
	_, err = ApplyFeedbackAction(&Feedback{Status: FeedbackArchived}, FeedbackActionArchive)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestApplyFeedbackAction_UnreadRevertsFromAnyState(t *testing.T) {
	for _, status := range []FeedbackStatus{FeedbackUnread, FeedbackRead, FeedbackArchived} {
		next, err := ApplyFeedbackAction(&Feedback{Status: status}, FeedbackActionUnread)
		require.NoError(t, err, "status=%s", status)
		assert.Equal(t, FeedbackUnread, next)
	}
}

func TestValidFeedbackType(t *testing.T) {
	for _, typ := range []FeedbackType{FeedbackQuestion, FeedbackFeedback, FeedbackSuggestion, FeedbackIssue, FeedbackOther} {
		assert.True(t, ValidFeedbackType(typ))
	}
	assert.False(t, ValidFeedbackType("complaint"))
	assert.False(t, ValidFeedbackType(""))
}
