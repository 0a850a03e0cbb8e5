package model

import "github.com/google/uuid"

// =====================================================
// BULK IMPORT TYPES
// =====================================================

// CSVAuthorRow is one parsed data row. Row is the 1-based line number
// in the uploaded file (the header is row 1).
type CSVAuthorRow struct {
	Row            int
	FirstName      string
	LastName       string
	Email          string
	Specialization string
}

// ImportValidationError points at the exact cell that failed.
type ImportValidationError struct {
	Row   int    `json:"row"`
	Field string `json:"field"`
	Value string `json:"value,omitempty"`
	Error string `json:"error"`
}

// BulkImportResult summarizes an import run. Imports are all-or-nothing:
// SuccessRows is either 0 or TotalRows.
type BulkImportResult struct {
	Success        bool                    `json:"success"`
	TotalRows      int                     `json:"total_rows"`
	SuccessRows    int                     `json:"success_rows"`
	FailedRows     int                     `json:"failed_rows"`
	Errors         []ImportValidationError `json:"errors,omitempty"`
	CreatedAuthors []uuid.UUID             `json:"created_authors,omitempty"`
}
