package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"editorial-backend/internal/domains/publication/gateway"
	"editorial-backend/internal/domains/publication/model"
	"editorial-backend/internal/domains/publication/service"
	"editorial-backend/internal/shared"
)

// =====================================================
// FAKES
// =====================================================

type fakeRepo struct {
	mu      sync.Mutex
	pubs    map[uuid.UUID]*model.Publication
	history map[uuid.UUID][]model.StatusHistory
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		pubs:    make(map[uuid.UUID]*model.Publication),
		history: make(map[uuid.UUID][]model.StatusHistory),
	}
}

func (r *fakeRepo) BeginTx(ctx context.Context) (pgx.Tx, error) { return nil, nil }

func (r *fakeRepo) CommitTx(ctx context.Context, tx pgx.Tx) error { return nil }

func (r *fakeRepo) RollbackTx(ctx context.Context, tx pgx.Tx) error { return nil }

func (r *fakeRepo) InvalidateCache(ctx context.Context, id uuid.UUID) {}

func (r *fakeRepo) Create(ctx context.Context, pub *model.Publication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	pub.CreatedAt = now
	pub.UpdatedAt = now
	cp := *pub
	r.pubs[pub.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Publication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pubs[id]
	if !ok {
		return nil, model.ErrPublicationNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) List(ctx context.Context, status string, page, limit int) ([]model.Publication, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.Publication
	for _, p := range r.pubs {
		if status != "" && p.Status.String() != status {
			continue
		}
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (r *fakeRepo) UpdateContent(ctx context.Context, pub *model.Publication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.pubs[pub.ID]
	if !ok || stored.Version != pub.Version {
		return model.ErrVersionMismatch
	}
	stored.Title = pub.Title
	stored.Body = pub.Body
	stored.Abstract = pub.Abstract
	stored.Keywords = pub.Keywords
	stored.Version++
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeRepo) UpdateStatusWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, newStatus model.Status, reviewNotes *string, incrementReview bool, version int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.pubs[id]
	if !ok || stored.Version != version {
		return model.ErrVersionMismatch
	}
	stored.Status = newStatus
	if incrementReview {
		stored.ReviewCount++
	}
	if reviewNotes != nil {
		stored.ReviewNotes = reviewNotes
	}
	stored.Version++
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeRepo) UpdateVisibility(ctx context.Context, id uuid.UUID, isVisible bool, version int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.pubs[id]
	if !ok || stored.Version != version {
		return model.ErrVersionMismatch
	}
	stored.IsVisible = isVisible
	stored.Version++
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.pubs[id]; !ok {
		return model.ErrPublicationNotFound
	}
	delete(r.pubs, id)
	return nil
}

func (r *fakeRepo) CountByStatus(ctx context.Context) (map[model.Status]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[model.Status]int)
	for _, p := range r.pubs {
		counts[p.Status]++
	}
	return counts, nil
}

func (r *fakeRepo) ListInReviewOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]model.Publication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.Publication
	for _, p := range r.pubs {
		if p.Status == model.StatusInReview && p.UpdatedAt.Before(cutoff) {
			out = append(out, *p)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateStatusHistoryWithTx(ctx context.Context, tx pgx.Tx, h *model.StatusHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h.ID = uuid.New()
	h.CreatedAt = time.Now()
	r.history[h.PublicationID] = append(r.history[h.PublicationID], *h)
	return nil
}

func (r *fakeRepo) GetStatusHistory(ctx context.Context, publicationID uuid.UUID) ([]model.StatusHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]model.StatusHistory(nil), r.history[publicationID]...), nil
}

func (r *fakeRepo) CreateAttachment(ctx context.Context, att *model.Attachment) error { return nil }

func (r *fakeRepo) GetAttachmentByID(ctx context.Context, attachmentID uuid.UUID) (*model.Attachment, error) {
	return nil, model.ErrAttachmentNotFound
}

func (r *fakeRepo) ListAttachments(ctx context.Context, publicationID uuid.UUID) ([]model.Attachment, error) {
	return nil, nil
}

func (r *fakeRepo) DeleteAttachment(ctx context.Context, attachmentID uuid.UUID) error { return nil }

// seed inserts a publication directly, bypassing the workflow.
func (r *fakeRepo) seed(pub model.Publication) *model.Publication {
	r.mu.Lock()
	defer r.mu.Unlock()

	if pub.ID == uuid.Nil {
		pub.ID = uuid.New()
	}
	if pub.Version == 0 {
		pub.Version = 1
	}
	now := time.Now()
	pub.CreatedAt = now
	pub.UpdatedAt = now
	r.pubs[pub.ID] = &pub
	cp := pub
	return &cp
}

// fakeDirectory is a canned author directory.
type fakeDirectory struct {
	existing  map[uuid.UUID]*gateway.AuthorRecord
	existsErr error
	fetchNil  bool
}

func (d *fakeDirectory) Exists(ctx context.Context, authorID uuid.UUID) (bool, error) {
	if d.existsErr != nil {
		return false, d.existsErr
	}
	_, ok := d.existing[authorID]
	return ok, nil
}

func (d *fakeDirectory) Fetch(ctx context.Context, authorID uuid.UUID) (*gateway.AuthorRecord, error) {
	if d.fetchNil {
		return nil, nil
	}
	return d.existing[authorID], nil
}

func (d *fakeDirectory) HealthCheck(ctx context.Context) bool { return d.existsErr == nil }

// fakeEnqueuer captures enqueued tasks.
type fakeEnqueuer struct {
	mu    sync.Mutex
	tasks []*asynq.Task
}

func (e *fakeEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tasks = append(e.tasks, task)
	return &asynq.TaskInfo{ID: uuid.NewString(), Type: task.Type()}, nil
}

func (e *fakeEnqueuer) byType(taskType string) []*asynq.Task {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []*asynq.Task
	for _, t := range e.tasks {
		if t.Type() == taskType {
			out = append(out, t)
		}
	}
	return out
}

// =====================================================
// TEST SETUP
// =====================================================

type fixture struct {
	repo      *fakeRepo
	directory *fakeDirectory
	enqueuer  *fakeEnqueuer
	svc       service.PublicationService
}

func newFixture() *fixture {
	repo := newFakeRepo()
	directory := &fakeDirectory{existing: make(map[uuid.UUID]*gateway.AuthorRecord)}
	enqueuer := &fakeEnqueuer{}
	return &fixture{
		repo:      repo,
		directory: directory,
		enqueuer:  enqueuer,
		svc:       service.NewPublicationService(repo, directory, enqueuer),
	}
}

func (f *fixture) registerAuthor() *gateway.AuthorRecord {
	rec := &gateway.AuthorRecord{
		ID:             uuid.New(),
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@analytical.engine",
		Specialization: "computing",
	}
	f.directory.existing[rec.ID] = rec
	return rec
}

func (f *fixture) seedWithStatus(status model.Status) *model.Publication {
	return f.repo.seed(model.Publication{
		Title:       "On Computable Numbers",
		Body:        "Full manuscript.",
		Status:      status,
		AuthorID:    uuid.New(),
		AuthorName:  "Alan Turing",
		AuthorEmail: "alan@nlp.ac.uk",
	})
}

// =====================================================
// CREATE
// =====================================================

func TestCreatePublication_SnapshotsAuthor(t *testing.T) {
	t.Parallel()

	f := newFixture()
	author := f.registerAuthor()

	pub, err := f.svc.CreatePublication(context.Background(), model.CreatePublicationRequest{
		Title:    "Notes on the Analytical Engine",
		Body:     "Sketch of the engine.",
		Abstract: "A translation with notes.",
		Keywords: []string{"computing", "mathematics"},
		AuthorID: author.ID.String(),
	})

	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, pub.Status)
	assert.Equal(t, 0, pub.ReviewCount)
	assert.False(t, pub.IsVisible)
	assert.Equal(t, 1, pub.Version)
	assert.Equal(t, "Ada Lovelace", pub.AuthorName)
	assert.Equal(t, "ada@analytical.engine", pub.AuthorEmail)

	stored, err := f.repo.GetByID(context.Background(), pub.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, stored.Status)
}

func TestCreatePublication_UnknownAuthorPersistsNothing(t *testing.T) {
	t.Parallel()

	f := newFixture()

	_, err := f.svc.CreatePublication(context.Background(), model.CreatePublicationRequest{
		Title:    "Ghost-written",
		Body:     "Text.",
		AuthorID: uuid.NewString(),
	})

	require.ErrorIs(t, err, model.ErrAuthorNotFound)
	assert.Empty(t, f.repo.pubs)
}

func TestCreatePublication_RejectsMissingFields(t *testing.T) {
	t.Parallel()

	f := newFixture()
	author := f.registerAuthor()

	cases := []struct {
		name string
		req  model.CreatePublicationRequest
	}{
		{"missing title", model.CreatePublicationRequest{Body: "text", AuthorID: author.ID.String()}},
		{"missing body", model.CreatePublicationRequest{Title: "title", AuthorID: author.ID.String()}},
		{"missing author", model.CreatePublicationRequest{Title: "title", Body: "text"}},
		{"malformed author id", model.CreatePublicationRequest{Title: "title", Body: "text", AuthorID: "not-a-uuid"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreatePublication(context.Background(), tc.req)
			require.Error(t, err)

			var pubErr *model.PublicationError
			require.ErrorAs(t, err, &pubErr)
			assert.Equal(t, model.ErrCodeValidation, pubErr.Code)
		})
	}

	assert.Empty(t, f.repo.pubs, "validation failures must not persist anything")
}

func TestCreatePublication_ProceedsUnenrichedWhenFetchYieldsNothing(t *testing.T) {
	t.Parallel()

	f := newFixture()
	author := f.registerAuthor()
	f.directory.fetchNil = true

	pub, err := f.svc.CreatePublication(context.Background(), model.CreatePublicationRequest{
		Title:    "Unenriched",
		Body:     "Text.",
		AuthorID: author.ID.String(),
	})

	require.NoError(t, err)
	assert.Empty(t, pub.AuthorName)
	assert.Empty(t, pub.AuthorEmail)
	assert.Equal(t, model.StatusDraft, pub.Status)
}

func TestCreatePublication_StrictDirectoryOutage(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.directory.existsErr = gateway.ErrDirectoryUnavailable

	_, err := f.svc.CreatePublication(context.Background(), model.CreatePublicationRequest{
		Title:    "Blocked",
		Body:     "Text.",
		AuthorID: uuid.NewString(),
	})

	require.ErrorIs(t, err, model.ErrDirectoryUnavailable)
	assert.Empty(t, f.repo.pubs)
}

// =====================================================
// CHANGE STATUS
// =====================================================

func TestChangeStatus_EnterReviewIncrementsCounterOnce(t *testing.T) {
	t.Parallel()

	f := newFixture()
	pub := f.seedWithStatus(model.StatusDraft)

	updated, err := f.svc.ChangeStatus(context.Background(), pub.ID, model.ChangeStatusRequest{
		Status:    model.StatusInReview.String(),
		ChangedBy: "editor@desk.io",
	})

	require.NoError(t, err)
	assert.Equal(t, model.StatusInReview, updated.Status)
	assert.Equal(t, 1, updated.ReviewCount)
	assert.Equal(t, pub.Version+1, updated.Version)
}

func TestChangeStatus_EnterReviewFromRejected(t *testing.T) {
	t.Parallel()

	f := newFixture()
	pub := f.seedWithStatus(model.StatusRejected)

	updated, err := f.svc.ChangeStatus(context.Background(), pub.ID, model.ChangeStatusRequest{
		Status: model.StatusInReview.String(),
	})

	require.NoError(t, err)
	assert.Equal(t, model.StatusInReview, updated.Status)
	assert.Equal(t, 1, updated.ReviewCount)
}

func TestChangeStatus_EnterReviewBlockedElsewhere(t *testing.T) {
	t.Parallel()

	f := newFixture()

	for _, from := range []model.Status{model.StatusInReview, model.StatusApproved, model.StatusPublished} {
		pub := f.seedWithStatus(from)

		_, err := f.svc.ChangeStatus(context.Background(), pub.ID, model.ChangeStatusRequest{
			Status: model.StatusInReview.String(),
		})

		require.Errorf(t, err, "from %s", from)
		assert.Truef(t, errorIsAny(err, model.ErrValidation, model.ErrIllegalTransition),
			"from %s: got %v", from, err)

		stored, getErr := f.repo.GetByID(context.Background(), pub.ID)
		require.NoError(t, getErr)
		assert.Equalf(t, from, stored.Status, "status must be untouched after failure from %s", from)
		assert.Equalf(t, 0, stored.ReviewCount, "counter must be untouched after failure from %s", from)
	}
}

func TestChangeStatus_EnterReviewNotifiesReviewDesk(t *testing.T) {
	t.Parallel()

	f := newFixture()
	pub := f.seedWithStatus(model.StatusDraft)

	_, err := f.svc.ChangeStatus(context.Background(), pub.ID, model.ChangeStatusRequest{
		Status:    model.StatusInReview.String(),
		ChangedBy: "editor@desk.io",
	})
	require.NoError(t, err)

	tasks := f.enqueuer.byType(shared.TypeReviewRequested)
	require.Len(t, tasks, 1)

	var payload model.ReviewRequestedPayload
	require.NoError(t, json.Unmarshal(tasks[0].Payload(), &payload))
	assert.Equal(t, pub.ID, payload.PublicationID)
	assert.Equal(t, pub.Title, payload.Title)
	assert.Equal(t, "editor@desk.io", payload.RequestedBy)
}

func TestChangeStatus_ApproveRequiresActiveReviewAndNotes(t *testing.T) {
	t.Parallel()

	f := newFixture()

	t.Run("succeeds from IN_REVIEW with notes", func(t *testing.T) {
		pub := f.seedWithStatus(model.StatusInReview)

		updated, err := f.svc.ChangeStatus(context.Background(), pub.ID, model.ChangeStatusRequest{
			Status:      model.StatusApproved.String(),
			ReviewNotes: "rigorous and well sourced",
		})

		require.NoError(t, err)
		assert.Equal(t, model.StatusApproved, updated.Status)
		require.NotNil(t, updated.ReviewNotes)
		assert.Equal(t, "rigorous and well sourced", *updated.ReviewNotes)
	})

	t.Run("fails without notes", func(t *testing.T) {
		pub := f.seedWithStatus(model.StatusInReview)

		_, err := f.svc.ChangeStatus(context.Background(), pub.ID, model.ChangeStatusRequest{
			Status: model.StatusApproved.String(),
		})

		require.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("fails outside review", func(t *testing.T) {
		pub := f.seedWithStatus(model.StatusDraft)

		_, err := f.svc.ChangeStatus(context.Background(), pub.ID, model.ChangeStatusRequest{
			Status:      model.StatusApproved.String(),
			ReviewNotes: "looks good",
		})

		require.ErrorIs(t, err, model.ErrValidation)
	})
}

func TestChangeStatus_PublishOnlyFromApproved(t *testing.T) {
	t.Parallel()

	f := newFixture()

	t.Run("succeeds from APPROVED", func(t *testing.T) {
		pub := f.seedWithStatus(model.StatusApproved)

		updated, err := f.svc.ChangeStatus(context.Background(), pub.ID, model.ChangeStatusRequest{
			Status: model.StatusPublished.String(),
		})

		require.NoError(t, err)
		assert.Equal(t, model.StatusPublished, updated.Status)
	})

	t.Run("illegal from IN_REVIEW", func(t *testing.T) {
		pub := f.seedWithStatus(model.StatusInReview)

		_, err := f.svc.ChangeStatus(context.Background(), pub.ID, model.ChangeStatusRequest{
			Status: model.StatusPublished.String(),
		})

		require.ErrorIs(t, err, model.ErrIllegalTransition)
	})
}

func TestChangeStatus_RejectedToPublishedIsIllegal(t *testing.T) {
	t.Parallel()

	f := newFixture()
	pub := f.seedWithStatus(model.StatusRejected)

	// Content is present, so the rules pass; only the transition graph
	// stands in the way, which must surface as an illegal transition.
	_, err := f.svc.ChangeStatus(context.Background(), pub.ID, model.ChangeStatusRequest{
		Status: model.StatusPublished.String(),
	})

	require.ErrorIs(t, err, model.ErrIllegalTransition)
}

func TestChangeStatus_RejectRules(t *testing.T) {
	t.Parallel()

	f := newFixture()

	t.Run("rejects an active review with notes", func(t *testing.T) {
		pub := f.seedWithStatus(model.StatusInReview)

		updated, err := f.svc.ChangeStatus(context.Background(), pub.ID, model.ChangeStatusRequest{
			Status:      model.StatusRejected.String(),
			ReviewNotes: "insufficient",
		})

		require.NoError(t, err)
		assert.Equal(t, model.StatusRejected, updated.Status)
		require.NotNil(t, updated.ReviewNotes)
		assert.Equal(t, "insufficient", *updated.ReviewNotes)
	})

	t.Run("published records cannot be rejected", func(t *testing.T) {
		pub := f.seedWithStatus(model.StatusPublished)

		_, err := f.svc.ChangeStatus(context.Background(), pub.ID, model.ChangeStatusRequest{
			Status:      model.StatusRejected.String(),
			ReviewNotes: "tried anyway",
		})

		require.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("requires notes", func(t *testing.T) {
		pub := f.seedWithStatus(model.StatusInReview)

		_, err := f.svc.ChangeStatus(context.Background(), pub.ID, model.ChangeStatusRequest{
			Status: model.StatusRejected.String(),
		})

		require.ErrorIs(t, err, model.ErrValidation)
	})
}

func TestChangeStatus_PublishedIsTerminal(t *testing.T) {
	t.Parallel()

	f := newFixture()
	pub := f.seedWithStatus(model.StatusApproved)

	_, err := f.svc.ChangeStatus(context.Background(), pub.ID, model.ChangeStatusRequest{
		Status: model.StatusPublished.String(),
	})
	require.NoError(t, err)

	for _, target := range []model.Status{model.StatusDraft, model.StatusInReview, model.StatusApproved, model.StatusRejected} {
		_, err := f.svc.ChangeStatus(context.Background(), pub.ID, model.ChangeStatusRequest{
			Status:      target.String(),
			ReviewNotes: "any",
		})
		require.Errorf(t, err, "PUBLISHED must not transition to %s", target)
	}
}

func TestChangeStatus_FailedTransitionIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture()
	pub := f.seedWithStatus(model.StatusRejected)

	first := func() error {
		_, err := f.svc.ChangeStatus(context.Background(), pub.ID, model.ChangeStatusRequest{
			Status: model.StatusPublished.String(),
		})
		return err
	}

	err1 := first()
	err2 := first()

	require.ErrorIs(t, err1, model.ErrIllegalTransition)
	require.ErrorIs(t, err2, model.ErrIllegalTransition)

	stored, err := f.repo.GetByID(context.Background(), pub.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, stored.Status)
	assert.Equal(t, pub.Version, stored.Version, "failed transitions must not bump the version")

	history, err := f.repo.GetStatusHistory(context.Background(), pub.ID)
	require.NoError(t, err)
	assert.Empty(t, history, "failed transitions must not write history")
}

func TestChangeStatus_VersionMismatchFailsBeforeWrite(t *testing.T) {
	t.Parallel()

	f := newFixture()
	pub := f.seedWithStatus(model.StatusDraft)

	_, err := f.svc.ChangeStatus(context.Background(), pub.ID, model.ChangeStatusRequest{
		Status:  model.StatusInReview.String(),
		Version: pub.Version + 7,
	})

	require.ErrorIs(t, err, model.ErrVersionMismatch)

	stored, getErr := f.repo.GetByID(context.Background(), pub.ID)
	require.NoError(t, getErr)
	assert.Equal(t, model.StatusDraft, stored.Status)
	assert.Equal(t, 0, stored.ReviewCount)
}

func TestChangeStatus_NotFound(t *testing.T) {
	t.Parallel()

	f := newFixture()

	_, err := f.svc.ChangeStatus(context.Background(), uuid.New(), model.ChangeStatusRequest{
		Status: model.StatusInReview.String(),
	})

	require.ErrorIs(t, err, model.ErrPublicationNotFound)
}

func TestChangeStatus_RecordsHistory(t *testing.T) {
	t.Parallel()

	f := newFixture()
	pub := f.seedWithStatus(model.StatusDraft)

	_, err := f.svc.ChangeStatus(context.Background(), pub.ID, model.ChangeStatusRequest{
		Status:    model.StatusInReview.String(),
		ChangedBy: "editor@desk.io",
	})
	require.NoError(t, err)

	history, err := f.svc.GetStatusHistory(context.Background(), pub.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)

	entry := history[0]
	require.NotNil(t, entry.FromStatus)
	assert.Equal(t, model.StatusDraft, *entry.FromStatus)
	assert.Equal(t, model.StatusInReview, entry.ToStatus)
	require.NotNil(t, entry.ChangedBy)
	assert.Equal(t, "editor@desk.io", *entry.ChangedBy)
}

// =====================================================
// UPDATE CONTENT
// =====================================================

func TestUpdateContent_OnlyWhileEditable(t *testing.T) {
	t.Parallel()

	f := newFixture()

	t.Run("draft is editable", func(t *testing.T) {
		pub := f.seedWithStatus(model.StatusDraft)

		updated, err := f.svc.UpdateContent(context.Background(), pub.ID, model.UpdateContentRequest{
			Title:    "Reworked Title",
			Body:     "Reworked body.",
			Abstract: "Reworked abstract.",
			Keywords: []string{"rework"},
		})

		require.NoError(t, err)
		assert.Equal(t, "Reworked Title", updated.Title)
		assert.Equal(t, pub.Version+1, updated.Version)
	})

	t.Run("approved is frozen", func(t *testing.T) {
		pub := f.seedWithStatus(model.StatusApproved)

		_, err := f.svc.UpdateContent(context.Background(), pub.ID, model.UpdateContentRequest{
			Title: "Sneaky Edit",
			Body:  "Nope.",
		})

		require.ErrorIs(t, err, model.ErrNotEditable)
		require.ErrorIs(t, err, model.ErrValidation)
	})
}

// =====================================================
// VISIBILITY / DELETE
// =====================================================

func TestSetVisibility(t *testing.T) {
	t.Parallel()

	f := newFixture()
	pub := f.seedWithStatus(model.StatusPublished)

	visible := true
	updated, err := f.svc.SetVisibility(context.Background(), pub.ID, model.SetVisibilityRequest{
		IsVisible: &visible,
	})

	require.NoError(t, err)
	assert.True(t, updated.IsVisible)
	assert.Equal(t, pub.Version+1, updated.Version)
}

func TestDeletePublication(t *testing.T) {
	t.Parallel()

	t.Run("draft can be deleted and purge is scheduled", func(t *testing.T) {
		t.Parallel()

		f := newFixture()
		pub := f.seedWithStatus(model.StatusDraft)

		require.NoError(t, f.svc.DeletePublication(context.Background(), pub.ID))

		_, err := f.repo.GetByID(context.Background(), pub.ID)
		require.ErrorIs(t, err, model.ErrPublicationNotFound)

		tasks := f.enqueuer.byType(shared.TypePurgeAttachments)
		require.Len(t, tasks, 1)

		var payload model.PurgeAttachmentsPayload
		require.NoError(t, json.Unmarshal(tasks[0].Payload(), &payload))
		assert.Equal(t, pub.ID, payload.PublicationID)
	})

	t.Run("published is immutable", func(t *testing.T) {
		t.Parallel()

		f := newFixture()
		pub := f.seedWithStatus(model.StatusPublished)

		err := f.svc.DeletePublication(context.Background(), pub.ID)
		require.ErrorIs(t, err, model.ErrCannotDelete)

		_, getErr := f.repo.GetByID(context.Background(), pub.ID)
		assert.NoError(t, getErr)
		assert.Empty(t, f.enqueuer.byType(shared.TypePurgeAttachments))
	})
}

// =====================================================
// STATS
// =====================================================

func TestGetStats_ZeroFilled(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.seedWithStatus(model.StatusDraft)
	f.seedWithStatus(model.StatusDraft)
	f.seedWithStatus(model.StatusPublished)

	stats, err := f.svc.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	require.Len(t, stats.ByStatus, len(model.AllStatuses))

	byStatus := make(map[model.Status]int)
	for _, sc := range stats.ByStatus {
		byStatus[sc.Status] = sc.Count
	}
	assert.Equal(t, 2, byStatus[model.StatusDraft])
	assert.Equal(t, 1, byStatus[model.StatusPublished])
	assert.Equal(t, 0, byStatus[model.StatusInReview])
	assert.Equal(t, 0, byStatus[model.StatusApproved])
	assert.Equal(t, 0, byStatus[model.StatusRejected])
}

// errorIsAny reports whether err matches at least one target.
func errorIsAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
