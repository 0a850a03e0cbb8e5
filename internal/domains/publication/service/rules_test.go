package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"editorial-backend/internal/domains/publication/model"
)

func record(status model.Status) *model.Publication {
	return &model.Publication{
		Title:  "On Distributed Consensus",
		Body:   "Full manuscript text.",
		Status: status,
	}
}

func TestValidateTransition_EnterReview(t *testing.T) {
	t.Parallel()

	req := model.ChangeStatusRequest{Status: model.StatusInReview.String()}

	t.Run("allowed from DRAFT and REJECTED", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, validateTransition(record(model.StatusDraft), model.StatusInReview, req))
		assert.NoError(t, validateTransition(record(model.StatusRejected), model.StatusInReview, req))
	})

	t.Run("blocked from other statuses", func(t *testing.T) {
		t.Parallel()

		for _, from := range []model.Status{model.StatusInReview, model.StatusApproved, model.StatusPublished} {
			err := validateTransition(record(from), model.StatusInReview, req)
			require.Error(t, err, "from %s", from)
			assert.ErrorIs(t, err, model.ErrTransitionRule)
			assert.ErrorIs(t, err, model.ErrValidation)
		}
	})

	t.Run("blocked without content", func(t *testing.T) {
		t.Parallel()

		rec := record(model.StatusDraft)
		rec.Body = "   "
		err := validateTransition(rec, model.StatusInReview, req)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrTransitionRule)
	})
}

func TestValidateTransition_Approve(t *testing.T) {
	t.Parallel()

	t.Run("requires IN_REVIEW and notes", func(t *testing.T) {
		t.Parallel()

		req := model.ChangeStatusRequest{Status: model.StatusApproved.String(), ReviewNotes: "well argued"}
		assert.NoError(t, validateTransition(record(model.StatusInReview), model.StatusApproved, req))
	})

	t.Run("blocked outside review", func(t *testing.T) {
		t.Parallel()

		req := model.ChangeStatusRequest{Status: model.StatusApproved.String(), ReviewNotes: "well argued"}
		for _, from := range []model.Status{model.StatusDraft, model.StatusApproved, model.StatusPublished, model.StatusRejected} {
			err := validateTransition(record(from), model.StatusApproved, req)
			require.Error(t, err, "from %s", from)
			assert.ErrorIs(t, err, model.ErrTransitionRule)
		}
	})

	t.Run("blocked on blank notes", func(t *testing.T) {
		t.Parallel()

		for _, notes := range []string{"", "   ", "\t\n"} {
			req := model.ChangeStatusRequest{Status: model.StatusApproved.String(), ReviewNotes: notes}
			err := validateTransition(record(model.StatusInReview), model.StatusApproved, req)
			require.Errorf(t, err, "notes %q", notes)
		}
	})
}

func TestValidateTransition_Publish(t *testing.T) {
	t.Parallel()

	req := model.ChangeStatusRequest{Status: model.StatusPublished.String()}

	t.Run("checks content only", func(t *testing.T) {
		t.Parallel()

		// The rule set deliberately does not check the current status
		// here; a REJECTED record with content passes the rules and is
		// stopped by the transition graph instead.
		for _, from := range []model.Status{model.StatusDraft, model.StatusInReview, model.StatusApproved, model.StatusRejected} {
			assert.NoErrorf(t, validateTransition(record(from), model.StatusPublished, req), "from %s", from)
		}
	})

	t.Run("blocked without content", func(t *testing.T) {
		t.Parallel()

		rec := record(model.StatusApproved)
		rec.Title = ""
		err := validateTransition(rec, model.StatusPublished, req)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrTransitionRule)
	})
}

func TestValidateTransition_Reject(t *testing.T) {
	t.Parallel()

	t.Run("allowed with notes from non-published statuses", func(t *testing.T) {
		t.Parallel()

		req := model.ChangeStatusRequest{Status: model.StatusRejected.String(), ReviewNotes: "insufficient"}
		for _, from := range []model.Status{model.StatusDraft, model.StatusInReview, model.StatusApproved, model.StatusRejected} {
			assert.NoErrorf(t, validateTransition(record(from), model.StatusRejected, req), "from %s", from)
		}
	})

	t.Run("blocked from PUBLISHED regardless of notes", func(t *testing.T) {
		t.Parallel()

		req := model.ChangeStatusRequest{Status: model.StatusRejected.String(), ReviewNotes: "retraction attempt"}
		err := validateTransition(record(model.StatusPublished), model.StatusRejected, req)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrTransitionRule)
	})

	t.Run("blocked on blank notes", func(t *testing.T) {
		t.Parallel()

		req := model.ChangeStatusRequest{Status: model.StatusRejected.String()}
		err := validateTransition(record(model.StatusInReview), model.StatusRejected, req)
		require.Error(t, err)
	})
}

func TestValidateTransition_DraftHasNoRule(t *testing.T) {
	t.Parallel()

	// Returning to DRAFT is governed by the transition graph alone.
	req := model.ChangeStatusRequest{Status: model.StatusDraft.String()}
	for _, from := range model.AllStatuses {
		assert.NoErrorf(t, validateTransition(record(from), model.StatusDraft, req), "from %s", from)
	}
}

func TestValidateTransition_ReportsSpecificReason(t *testing.T) {
	t.Parallel()

	err := validateTransition(record(model.StatusPublished), model.StatusInReview, model.ChangeStatusRequest{})
	require.Error(t, err)

	var pubErr *model.PublicationError
	require.ErrorAs(t, err, &pubErr)
	assert.Equal(t, model.ErrCodeTransitionRule, pubErr.Code)
	assert.Contains(t, pubErr.Message, "PUBLISHED")
}
