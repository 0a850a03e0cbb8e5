package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"editorial-backend/internal/domains/author/model"
	"editorial-backend/internal/domains/author/repository"
)

// maxImportRows caps a single CSV upload.
const maxImportRows = 1000

// =====================================================
// BULK IMPORT SERVICE IMPLEMENTATION
// =====================================================

type bulkImportService struct {
	repo repository.AuthorRepository
}

// NewBulkImportService creates a new bulk import service
func NewBulkImportService(repo repository.AuthorRepository) BulkImportService {
	return &bulkImportService{
		repo: repo,
	}
}

// ImportAuthors is the main entry point for bulk import (sync mode)
func (s *bulkImportService) ImportAuthors(ctx context.Context, file *multipart.FileHeader) (*model.BulkImportResult, error) {
	log.Info().
		Str("file_name", file.Filename).
		Int64("file_size", file.Size).
		Msg("Starting bulk author import")

	// PHASE 1: Parse CSV file
	csvRows, err := s.parseCSVFile(file)
	if err != nil {
		return &model.BulkImportResult{
			Success:   false,
			TotalRows: 0,
			Errors: []model.ImportValidationError{
				{Row: 0, Field: "file", Error: err.Error()},
			},
		}, nil
	}

	totalRows := len(csvRows)
	log.Info().Int("total_rows", totalRows).Msg("CSV parsed successfully")

	// Check row limit
	if totalRows > maxImportRows {
		return &model.BulkImportResult{
			Success:   false,
			TotalRows: totalRows,
			Errors: []model.ImportValidationError{
				{Row: 0, Field: "file", Error: fmt.Sprintf("file exceeds %d rows limit", maxImportRows)},
			},
		}, nil
	}

	// PHASE 2: Validate ALL rows (nothing is inserted yet)
	validationErrors, err := s.validateAllRows(ctx, csvRows)
	if err != nil {
		return nil, fmt.Errorf("failed to validate rows: %w", err)
	}
	if len(validationErrors) > 0 {
		log.Warn().
			Int("error_count", len(validationErrors)).
			Msg("Bulk import validation failed")

		return &model.BulkImportResult{
			Success:    false,
			TotalRows:  totalRows,
			FailedRows: len(validationErrors),
			Errors:     validationErrors,
		}, nil
	}

	log.Info().Msg("All rows validated successfully")

	// PHASE 3: Insert all rows in one transaction (all-or-nothing)
	authors := make([]*model.Author, 0, len(csvRows))
	for _, row := range csvRows {
		authors = append(authors, &model.Author{
			ID:             uuid.New(),
			FirstName:      row.FirstName,
			LastName:       row.LastName,
			Email:          normalizeEmail(row.Email),
			Specialization: row.Specialization,
			Version:        1,
		})
	}

	if err := s.repo.CreateBatch(ctx, authors); err != nil {
		return &model.BulkImportResult{
			Success:   false,
			TotalRows: totalRows,
			Errors: []model.ImportValidationError{
				{Row: 0, Field: "transaction", Error: err.Error()},
			},
		}, nil
	}

	createdIDs := make([]uuid.UUID, 0, len(authors))
	for _, author := range authors {
		createdIDs = append(createdIDs, author.ID)
	}

	log.Info().
		Int("success_count", len(createdIDs)).
		Msg("Bulk author import completed successfully")

	return &model.BulkImportResult{
		Success:        true,
		TotalRows:      totalRows,
		SuccessRows:    len(createdIDs),
		CreatedAuthors: createdIDs,
	}, nil
}

// parseCSVFile parses the uploaded CSV file into CSVAuthorRow structs
func (s *bulkImportService) parseCSVFile(file *multipart.FileHeader) ([]model.CSVAuthorRow, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	reader := csv.NewReader(src)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("CSV file is empty (no data rows)")
	}

	// Parse header
	colIndexMap := s.buildColumnIndexMap(records[0])
	for _, col := range []string{"first_name", "last_name", "email"} {
		if _, ok := colIndexMap[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	// Parse data rows (row numbers start at 2, right after the header)
	var csvRows []model.CSVAuthorRow
	for i, record := range records[1:] {
		csvRows = append(csvRows, s.parseCSVRow(record, colIndexMap, i+2))
	}

	return csvRows, nil
}

// buildColumnIndexMap maps column name to index
func (s *bulkImportService) buildColumnIndexMap(header []string) map[string]int {
	colMap := make(map[string]int)
	for i, colName := range header {
		colMap[strings.TrimSpace(strings.ToLower(colName))] = i
	}
	return colMap
}

// parseCSVRow parses one CSV record into a CSVAuthorRow struct
func (s *bulkImportService) parseCSVRow(record []string, colMap map[string]int, rowNum int) model.CSVAuthorRow {
	getCol := func(name string) string {
		if idx, ok := colMap[name]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	return model.CSVAuthorRow{
		Row:            rowNum,
		FirstName:      getCol("first_name"),
		LastName:       getCol("last_name"),
		Email:          getCol("email"),
		Specialization: getCol("specialization"),
	}
}

// validateAllRows validates every row, returns the full list of errors.
// Duplicate detection covers both the file itself and the database.
func (s *bulkImportService) validateAllRows(ctx context.Context, rows []model.CSVAuthorRow) ([]model.ImportValidationError, error) {
	var errors []model.ImportValidationError

	// Track duplicate emails within the file
	emailMap := make(map[string]int) // normalized email -> first row

	for _, row := range rows {
		errors = append(errors, s.validateRow(row)...)

		email := normalizeEmail(row.Email)
		if email == "" {
			continue
		}

		if firstRow, exists := emailMap[email]; exists {
			errors = append(errors, model.ImportValidationError{
				Row:   row.Row,
				Field: "email",
				Value: row.Email,
				Error: fmt.Sprintf("duplicate email (also at row %d)", firstRow),
			})
			continue
		}
		emailMap[email] = row.Row

		// Check against existing authors. Each unique email is
		// checked once, on its first occurrence.
		exists, err := s.repo.EmailExists(ctx, email)
		if err != nil {
			return nil, err
		}
		if exists {
			errors = append(errors, model.ImportValidationError{
				Row:   row.Row,
				Field: "email",
				Value: row.Email,
				Error: "email already registered",
			})
		}
	}

	return errors, nil
}

// validateRow validates one row, returns the errors for that row
func (s *bulkImportService) validateRow(row model.CSVAuthorRow) []model.ImportValidationError {
	var errors []model.ImportValidationError

	if row.FirstName == "" {
		errors = append(errors, model.ImportValidationError{
			Row:   row.Row,
			Field: "first_name",
			Error: "required field",
		})
	} else if len(row.FirstName) > 100 {
		errors = append(errors, model.ImportValidationError{
			Row:   row.Row,
			Field: "first_name",
			Value: row.FirstName,
			Error: "must be at most 100 characters",
		})
	}

	if row.LastName == "" {
		errors = append(errors, model.ImportValidationError{
			Row:   row.Row,
			Field: "last_name",
			Error: "required field",
		})
	} else if len(row.LastName) > 100 {
		errors = append(errors, model.ImportValidationError{
			Row:   row.Row,
			Field: "last_name",
			Value: row.LastName,
			Error: "must be at most 100 characters",
		})
	}

	if row.Email == "" {
		errors = append(errors, model.ImportValidationError{
			Row:   row.Row,
			Field: "email",
			Error: "required field",
		})
	} else if err := is.Email.Validate(row.Email); err != nil {
		errors = append(errors, model.ImportValidationError{
			Row:   row.Row,
			Field: "email",
			Value: row.Email,
			Error: err.Error(),
		})
	}

	if len(row.Specialization) > 200 {
		errors = append(errors, model.ImportValidationError{
			Row:   row.Row,
			Field: "specialization",
			Value: row.Specialization,
			Error: "must be at most 200 characters",
		})
	}

	return errors
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
