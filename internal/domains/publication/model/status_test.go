package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"editorial-backend/internal/domains/publication/model"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	allowed := map[model.Status][]model.Status{
		model.StatusDraft:     {model.StatusInReview, model.StatusRejected},
		model.StatusInReview:  {model.StatusApproved, model.StatusRejected, model.StatusDraft},
		model.StatusApproved:  {model.StatusPublished},
		model.StatusPublished: {},
		model.StatusRejected:  {model.StatusDraft, model.StatusInReview},
	}

	// Check the full from/to matrix so no edge sneaks in or goes missing.
	for _, from := range model.AllStatuses {
		for _, to := range model.AllStatuses {
			want := false
			for _, next := range allowed[from] {
				if next == to {
					want = true
				}
			}
			got := model.CanTransition(from, to)
			assert.Equalf(t, want, got, "CanTransition(%s, %s)", from, to)
		}
	}
}

func TestCanTransition_SelfLoopsRejected(t *testing.T) {
	t.Parallel()

	for _, s := range model.AllStatuses {
		assert.Falsef(t, model.CanTransition(s, s), "self transition %s should be rejected", s)
	}
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	t.Parallel()

	assert.False(t, model.CanTransition(model.Status("ARCHIVED"), model.StatusDraft))
	assert.False(t, model.CanTransition(model.StatusDraft, model.Status("ARCHIVED")))
}

func TestStatusIsTerminal(t *testing.T) {
	t.Parallel()

	assert.True(t, model.StatusPublished.IsTerminal())

	for _, s := range []model.Status{
		model.StatusDraft, model.StatusInReview, model.StatusApproved, model.StatusRejected,
	} {
		assert.Falsef(t, s.IsTerminal(), "%s should not be terminal", s)
	}

	assert.False(t, model.Status("ARCHIVED").IsTerminal())
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	t.Run("known statuses", func(t *testing.T) {
		t.Parallel()

		for _, s := range model.AllStatuses {
			parsed, ok := model.ParseStatus(s.String())
			require.True(t, ok)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		t.Parallel()

		_, ok := model.ParseStatus("archived")
		assert.False(t, ok)

		// Matching is case sensitive.
		_, ok = model.ParseStatus("draft")
		assert.False(t, ok)
	})
}

func TestAllowedTransitions(t *testing.T) {
	t.Parallel()

	assert.ElementsMatch(t,
		[]model.Status{model.StatusApproved, model.StatusRejected, model.StatusDraft},
		model.AllowedTransitions(model.StatusInReview),
	)
	assert.Empty(t, model.AllowedTransitions(model.StatusPublished))

	// Returned slice is a copy; mutating it must not corrupt the graph.
	edges := model.AllowedTransitions(model.StatusDraft)
	require.Len(t, edges, 2)
	edges[0] = model.StatusPublished
	assert.False(t, model.CanTransition(model.StatusDraft, model.StatusPublished))
}

func TestPublicationHasContent(t *testing.T) {
	t.Parallel()

	p := &model.Publication{Title: "Compilers in Practice", Body: "Full text."}
	assert.True(t, p.HasContent())

	assert.False(t, (&model.Publication{Title: "", Body: "text"}).HasContent())
	assert.False(t, (&model.Publication{Title: "title", Body: "   "}).HasContent())
	assert.False(t, (&model.Publication{Title: "\t\n", Body: ""}).HasContent())
}

func TestPublicationIsEditable(t *testing.T) {
	t.Parallel()

	editable := map[model.Status]bool{
		model.StatusDraft:     true,
		model.StatusInReview:  true,
		model.StatusApproved:  false,
		model.StatusPublished: false,
		model.StatusRejected:  false,
	}

	for status, want := range editable {
		p := &model.Publication{Status: status}
		assert.Equalf(t, want, p.IsEditable(), "IsEditable in %s", status)
	}
}
