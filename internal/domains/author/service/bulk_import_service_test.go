package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"editorial-backend/internal/domains/author/model"
	"editorial-backend/internal/domains/author/service"
)

// csvUpload wraps raw CSV content in a real multipart file header, the
// same shape gin hands to the handler.
func csvUpload(t *testing.T, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "authors.csv")
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(int64(buf.Len()) + 4096)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	require.Len(t, form.File["file"], 1)
	return form.File["file"][0]
}

func hasImportError(errs []model.ImportValidationError, row int, field string) bool {
	for _, e := range errs {
		if e.Row == row && e.Field == field {
			return true
		}
	}
	return false
}

func TestImportAuthors_CreatesAllRows(t *testing.T) {
	t.Parallel()
	repo := newFakeRepo()
	svc := service.NewBulkImportService(repo)

	file := csvUpload(t, strings.Join([]string{
		"first_name,last_name,email,specialization",
		"Ada,Lovelace,Ada@Analytical.Engine,Mathematics",
		"Alan,Turing,alan@bletchley.park,Computation",
		"Grace,Hopper,grace@navy.mil,",
	}, "\n"))

	result, err := svc.ImportAuthors(context.Background(), file)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 3, result.SuccessRows)
	assert.Len(t, result.CreatedAuthors, 3)
	assert.Empty(t, result.Errors)

	assert.Equal(t, 1, repo.batchCalls)
	assert.Len(t, repo.authors, 3)

	// Emails land normalized.
	for _, author := range repo.authors {
		assert.Equal(t, strings.ToLower(author.Email), author.Email)
	}
}

func TestImportAuthors_ColumnsMayBeReordered(t *testing.T) {
	t.Parallel()
	repo := newFakeRepo()
	svc := service.NewBulkImportService(repo)

	file := csvUpload(t, strings.Join([]string{
		"EMAIL, last_name ,first_name",
		"ada@analytical.engine,Lovelace,Ada",
	}, "\n"))

	result, err := svc.ImportAuthors(context.Background(), file)
	require.NoError(t, err)
	require.True(t, result.Success)

	require.Len(t, repo.authors, 1)
	for _, author := range repo.authors {
		assert.Equal(t, "Ada", author.FirstName)
		assert.Equal(t, "Lovelace", author.LastName)
		assert.Equal(t, "", author.Specialization)
	}
}

func TestImportAuthors_RowErrorsBlockEveryInsert(t *testing.T) {
	t.Parallel()
	repo := newFakeRepo()
	svc := service.NewBulkImportService(repo)

	file := csvUpload(t, strings.Join([]string{
		"first_name,last_name,email,specialization",
		"Ada,Lovelace,ada@analytical.engine,Mathematics", // row 2: fine
		"Alan,,alan@bletchley.park,Computation",          // row 3: missing last name
		"Grace,Hopper,not-an-address,Compilers",          // row 4: bad email
		"Ada II,Lovelace,ada@analytical.engine,",         // row 5: duplicate of row 2
	}, "\n"))

	result, err := svc.ImportAuthors(context.Background(), file)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 4, result.TotalRows)
	assert.Equal(t, 0, result.SuccessRows)
	assert.Equal(t, len(result.Errors), result.FailedRows)

	assert.True(t, hasImportError(result.Errors, 3, "last_name"))
	assert.True(t, hasImportError(result.Errors, 4, "email"))
	assert.True(t, hasImportError(result.Errors, 5, "email"))
	assert.False(t, hasImportError(result.Errors, 2, "email"))

	// One bad row poisons the whole file.
	assert.Equal(t, 0, repo.batchCalls)
	assert.Empty(t, repo.authors)
}

func TestImportAuthors_DuplicateAgainstRegistry(t *testing.T) {
	t.Parallel()
	repo := newFakeRepo()
	repo.seed(&model.Author{FirstName: "Ada", LastName: "Lovelace", Email: "ada@analytical.engine"})
	svc := service.NewBulkImportService(repo)

	file := csvUpload(t, strings.Join([]string{
		"first_name,last_name,email",
		"Augusta Ada,King,ADA@analytical.engine",
	}, "\n"))

	result, err := svc.ImportAuthors(context.Background(), file)
	require.NoError(t, err)

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Equal(t, "email already registered", result.Errors[0].Error)

	assert.Len(t, repo.authors, 1)
}

func TestImportAuthors_EmptyFile(t *testing.T) {
	t.Parallel()
	svc := service.NewBulkImportService(newFakeRepo())

	file := csvUpload(t, "first_name,last_name,email\n")

	result, err := svc.ImportAuthors(context.Background(), file)
	require.NoError(t, err)

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 0, result.Errors[0].Row)
	assert.Equal(t, "file", result.Errors[0].Field)
	assert.Contains(t, result.Errors[0].Error, "no data rows")
}

func TestImportAuthors_MissingRequiredColumn(t *testing.T) {
	t.Parallel()
	svc := service.NewBulkImportService(newFakeRepo())

	file := csvUpload(t, strings.Join([]string{
		"first_name,last_name",
		"Ada,Lovelace",
	}, "\n"))

	result, err := svc.ImportAuthors(context.Background(), file)
	require.NoError(t, err)

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "missing required column: email", result.Errors[0].Error)
}

func TestImportAuthors_RowLimit(t *testing.T) {
	t.Parallel()
	repo := newFakeRepo()
	svc := service.NewBulkImportService(repo)

	var sb strings.Builder
	sb.WriteString("first_name,last_name,email\n")
	for i := 0; i < 1001; i++ {
		fmt.Fprintf(&sb, "Author,Number%d,author%d@press.example\n", i, i)
	}

	result, err := svc.ImportAuthors(context.Background(), csvUpload(t, sb.String()))
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 1001, result.TotalRows)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error, "1000 rows limit")
	assert.Equal(t, 0, repo.batchCalls)
}

func TestImportAuthors_RegistryProbeFailure(t *testing.T) {
	t.Parallel()
	repo := newFakeRepo()
	repo.emailErr = errors.New("connection refused")
	svc := service.NewBulkImportService(repo)

	file := csvUpload(t, strings.Join([]string{
		"first_name,last_name,email",
		"Ada,Lovelace,ada@analytical.engine",
	}, "\n"))

	_, err := svc.ImportAuthors(context.Background(), file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to validate rows")
}

func TestImportAuthors_TransactionFailure(t *testing.T) {
	t.Parallel()
	repo := newFakeRepo()
	repo.batchErr = errors.New("connection reset")
	svc := service.NewBulkImportService(repo)

	file := csvUpload(t, strings.Join([]string{
		"first_name,last_name,email",
		"Ada,Lovelace,ada@analytical.engine",
	}, "\n"))

	result, err := svc.ImportAuthors(context.Background(), file)
	require.NoError(t, err)

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "transaction", result.Errors[0].Field)
	assert.Empty(t, result.CreatedAuthors)
}
