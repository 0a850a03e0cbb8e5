package service_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"editorial-backend/internal/config"
	"editorial-backend/internal/domains/author/model"
	"editorial-backend/internal/domains/author/service"
	"editorial-backend/pkg/jwt"
)

// =====================================================
// FAKES
// =====================================================

type fakeRepo struct {
	mu      sync.Mutex
	authors map[uuid.UUID]*model.Author

	batchCalls int
	batchErr   error
	emailErr   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{authors: make(map[uuid.UUID]*model.Author)}
}

// seed stores an author directly, bypassing the service.
func (f *fakeRepo) seed(author *model.Author) *model.Author {
	f.mu.Lock()
	defer f.mu.Unlock()

	if author.ID == uuid.Nil {
		author.ID = uuid.New()
	}
	if author.Version == 0 {
		author.Version = 1
	}
	stored := *author
	f.authors[stored.ID] = &stored

	out := stored
	return &out
}

func (f *fakeRepo) Create(ctx context.Context, author *model.Author) (*model.Author, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.authors {
		if strings.EqualFold(existing.Email, author.Email) {
			return nil, model.ErrDuplicateEmail
		}
	}

	stored := *author
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.authors[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (f *fakeRepo) CreateBatch(ctx context.Context, authors []*model.Author) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.batchCalls++
	if f.batchErr != nil {
		return f.batchErr
	}

	// All-or-nothing: nothing is stored unless every row inserts.
	for _, author := range authors {
		for _, existing := range f.authors {
			if strings.EqualFold(existing.Email, author.Email) {
				return fmt.Errorf("email %s: %w", author.Email, model.ErrDuplicateEmail)
			}
		}
	}

	now := time.Now()
	for _, author := range authors {
		stored := *author
		stored.CreatedAt = now
		stored.UpdatedAt = now
		f.authors[stored.ID] = &stored
	}
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	author, ok := f.authors[id]
	if !ok {
		return nil, model.ErrAuthorNotFound
	}
	out := *author
	return &out, nil
}

func (f *fakeRepo) List(ctx context.Context, req model.ListAuthorsRequest) ([]model.Author, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.Author
	for _, author := range f.authors {
		out = append(out, *author)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Update(ctx context.Context, author *model.Author, currentVersion int) (*model.Author, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.authors[author.ID]
	if !ok {
		return nil, model.ErrAuthorNotFound
	}
	if stored.Version != currentVersion {
		return nil, model.ErrVersionMismatch
	}
	for id, existing := range f.authors {
		if id != author.ID && strings.EqualFold(existing.Email, author.Email) {
			return nil, model.ErrDuplicateEmail
		}
	}

	stored.FirstName = author.FirstName
	stored.LastName = author.LastName
	stored.Email = author.Email
	stored.Specialization = author.Specialization
	stored.Version++
	stored.UpdatedAt = time.Now()

	out := *stored
	return &out, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.authors[id]; !ok {
		return model.ErrAuthorNotFound
	}
	delete(f.authors, id)
	return nil
}

func (f *fakeRepo) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.authors[id]
	return ok, nil
}

func (f *fakeRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.emailErr != nil {
		return false, f.emailErr
	}
	for _, existing := range f.authors {
		if strings.EqualFold(existing.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

// =====================================================
// FIXTURE
// =====================================================

const testSecret = "unit-test-signing-secret"

type fixture struct {
	repo *fakeRepo
	svc  service.AuthorService
}

func newFixture() *fixture {
	repo := newFakeRepo()
	return &fixture{
		repo: repo,
		svc: service.NewAuthorService(repo, jwt.NewManager(testSecret), config.JWTConfig{
			Secret:   testSecret,
			TokenTTL: time.Hour,
		}),
	}
}

func validCreate() model.CreateAuthorRequest {
	return model.CreateAuthorRequest{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@analytical.engine",
		Specialization: "Mathematics",
	}
}

// =====================================================
// CREATE
// =====================================================

func TestCreateAuthor_NormalizesInput(t *testing.T) {
	t.Parallel()
	f := newFixture()

	req := validCreate()
	req.FirstName = "  Ada "
	req.Email = " Ada@Analytical.Engine "

	author, err := f.svc.CreateAuthor(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Ada", author.FirstName)
	assert.Equal(t, "ada@analytical.engine", author.Email)
	assert.Equal(t, 1, author.Version)
	assert.NotEqual(t, uuid.Nil, author.ID)
}

func TestCreateAuthor_RejectsInvalidRequests(t *testing.T) {
	t.Parallel()
	f := newFixture()

	cases := map[string]func(*model.CreateAuthorRequest){
		"missing first name": func(r *model.CreateAuthorRequest) { r.FirstName = "" },
		"missing last name":  func(r *model.CreateAuthorRequest) { r.LastName = "" },
		"missing email":      func(r *model.CreateAuthorRequest) { r.Email = "" },
		"malformed email":    func(r *model.CreateAuthorRequest) { r.Email = "not-an-address" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validCreate()
			mutate(&req)

			_, err := f.svc.CreateAuthor(context.Background(), req)
			require.Error(t, err)

			var authorErr *model.AuthorError
			require.ErrorAs(t, err, &authorErr)
			assert.Equal(t, model.ErrCodeValidation, authorErr.Code)
		})
	}

	assert.Empty(t, f.repo.authors)
}

func TestCreateAuthor_DuplicateEmail(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.repo.seed(&model.Author{FirstName: "Ada", LastName: "Lovelace", Email: "ada@analytical.engine"})

	_, err := f.svc.CreateAuthor(context.Background(), validCreate())
	assert.ErrorIs(t, err, model.ErrDuplicateEmail)
	assert.Len(t, f.repo.authors, 1)
}

// =====================================================
// LIST
// =====================================================

func TestListAuthors_RejectsUnknownSortColumn(t *testing.T) {
	t.Parallel()
	f := newFixture()

	_, _, err := f.svc.ListAuthors(context.Background(), model.ListAuthorsRequest{SortBy: "password"})
	assert.ErrorIs(t, err, model.ErrValidation)
}

// =====================================================
// UPDATE
// =====================================================

func TestUpdateAuthor_ReplacesMutableFields(t *testing.T) {
	t.Parallel()
	f := newFixture()
	author := f.repo.seed(&model.Author{FirstName: "Ada", LastName: "Lovelace", Email: "ada@analytical.engine"})

	updated, err := f.svc.UpdateAuthor(context.Background(), author.ID, model.UpdateAuthorRequest{
		FirstName:      "Augusta Ada",
		LastName:       "King",
		Email:          "ada@lovelace.example",
		Specialization: "Analytical engines",
		Version:        1,
	})
	require.NoError(t, err)

	assert.Equal(t, "Augusta Ada", updated.FirstName)
	assert.Equal(t, "King", updated.LastName)
	assert.Equal(t, 2, updated.Version)
}

func TestUpdateAuthor_StaleVersion(t *testing.T) {
	t.Parallel()
	f := newFixture()
	author := f.repo.seed(&model.Author{FirstName: "Ada", LastName: "Lovelace", Email: "ada@analytical.engine"})

	_, err := f.svc.UpdateAuthor(context.Background(), author.ID, model.UpdateAuthorRequest{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@analytical.engine",
		Specialization: "Mathematics",
		Version:        7,
	})
	assert.ErrorIs(t, err, model.ErrVersionMismatch)

	stored := f.repo.authors[author.ID]
	assert.Equal(t, 1, stored.Version)
}

func TestUpdateAuthor_NotFound(t *testing.T) {
	t.Parallel()
	f := newFixture()

	_, err := f.svc.UpdateAuthor(context.Background(), uuid.New(), model.UpdateAuthorRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@analytical.engine",
		Version:   1,
	})
	assert.ErrorIs(t, err, model.ErrAuthorNotFound)
}

// =====================================================
// DELETE / EXISTS
// =====================================================

func TestDeleteAuthor(t *testing.T) {
	t.Parallel()
	f := newFixture()
	author := f.repo.seed(&model.Author{FirstName: "Ada", LastName: "Lovelace", Email: "ada@analytical.engine"})

	require.NoError(t, f.svc.DeleteAuthor(context.Background(), author.ID))
	assert.Empty(t, f.repo.authors)

	assert.ErrorIs(t, f.svc.DeleteAuthor(context.Background(), author.ID), model.ErrAuthorNotFound)
}

func TestAuthorExists(t *testing.T) {
	t.Parallel()
	f := newFixture()
	author := f.repo.seed(&model.Author{FirstName: "Ada", LastName: "Lovelace", Email: "ada@analytical.engine"})

	exists, err := f.svc.AuthorExists(context.Background(), author.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = f.svc.AuthorExists(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)
}

// =====================================================
// EDITOR TOKEN
// =====================================================

func TestIssueEditorToken(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	require.NoError(t, err)

	manager := jwt.NewManager(testSecret)
	svc := service.NewAuthorService(newFakeRepo(), manager, config.JWTConfig{
		Secret:           testSecret,
		TokenTTL:         time.Hour,
		EditorAPIKeyHash: string(hash),
	})

	t.Run("issues a token for the right key", func(t *testing.T) {
		resp, err := svc.IssueEditorToken(context.Background(), model.TokenRequest{
			Email:  "editor@desk.io",
			APIKey: "letmein",
		})
		require.NoError(t, err)
		require.NotEmpty(t, resp.Token)
		assert.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)

		claims, err := manager.ValidateEditorToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "editor@desk.io", claims.Email)
		assert.Equal(t, jwt.RoleEditor, claims.Role)
	})

	t.Run("rejects a wrong key", func(t *testing.T) {
		_, err := svc.IssueEditorToken(context.Background(), model.TokenRequest{
			Email:  "editor@desk.io",
			APIKey: "not-the-key",
		})
		assert.ErrorIs(t, err, model.ErrInvalidAPIKey)
	})

	t.Run("rejects a malformed request", func(t *testing.T) {
		_, err := svc.IssueEditorToken(context.Background(), model.TokenRequest{
			Email:  "not-an-address",
			APIKey: "letmein",
		})

		var authorErr *model.AuthorError
		require.ErrorAs(t, err, &authorErr)
		assert.Equal(t, model.ErrCodeValidation, authorErr.Code)
	})

	t.Run("rejects every key when issuing is disabled", func(t *testing.T) {
		disabled := service.NewAuthorService(newFakeRepo(), manager, config.JWTConfig{
			Secret:   testSecret,
			TokenTTL: time.Hour,
		})

		_, err := disabled.IssueEditorToken(context.Background(), model.TokenRequest{
			Email:  "editor@desk.io",
			APIKey: "letmein",
		})
		assert.ErrorIs(t, err, model.ErrInvalidAPIKey)
	})
}
