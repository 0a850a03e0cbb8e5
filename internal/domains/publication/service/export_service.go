package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"editorial-backend/internal/domains/publication/model"
	"editorial-backend/internal/domains/publication/repository"
)

// =====================================================
// EXPORT SERVICE IMPLEMENTATION
// =====================================================

type exportService struct {
	repo repository.PublicationRepository
}

func NewExportService(repo repository.PublicationRepository) ExportService {
	return &exportService{
		repo: repo,
	}
}

func (s *exportService) ExportToExcel(ctx context.Context, req model.ExportPublicationsRequest) (*excelize.File, error) {
	// 1. Normalize the request; exports are capped at 100 rows
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. Pull the first page at the export size
	pubs, _, err := s.repo.List(ctx, req.Status, 1, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list publications for export: %w", err)
	}

	// 3. Build the workbook
	f, err := s.buildPublicationsExcelFile(pubs)
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}

	return f, nil
}

func (s *exportService) buildPublicationsExcelFile(pubs []model.Publication) (*excelize.File, error) {
	f := excelize.NewFile()

	sheetName := "Publications"
	f.SetSheetName("Sheet1", sheetName)

	// Row 1: Header
	headers := []string{
		"ID",
		"Title",
		"Abstract",
		"Keywords",
		"Status",
		"Author Name",
		"Author Email",
		"Review Notes",
		"Review Count",
		"Is Visible",
		"Version",
		"Created At",
		"Updated At",
	}

	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	})
	if err == nil {
		f.SetCellStyle(sheetName, "A1", "M1", headerStyle)
	}

	// Data rows start at row 2
	for i, p := range pubs {
		rowNum := i + 2

		rowStr := func(col int) string {
			cell, _ := excelize.CoordinatesToCellName(col, rowNum)
			return cell
		}

		reviewNotes := ""
		if p.ReviewNotes != nil {
			reviewNotes = *p.ReviewNotes
		}

		f.SetCellValue(sheetName, rowStr(1), p.ID.String())
		f.SetCellValue(sheetName, rowStr(2), p.Title)
		f.SetCellValue(sheetName, rowStr(3), p.Abstract)
		f.SetCellValue(sheetName, rowStr(4), strings.Join(p.Keywords, ", "))
		f.SetCellValue(sheetName, rowStr(5), p.Status.String())
		f.SetCellValue(sheetName, rowStr(6), p.AuthorName)
		f.SetCellValue(sheetName, rowStr(7), p.AuthorEmail)
		f.SetCellValue(sheetName, rowStr(8), reviewNotes)
		f.SetCellValue(sheetName, rowStr(9), p.ReviewCount)
		f.SetCellValue(sheetName, rowStr(10), p.IsVisible)
		f.SetCellValue(sheetName, rowStr(11), p.Version)
		f.SetCellValue(sheetName, rowStr(12), p.CreatedAt.Format(time.RFC3339))
		f.SetCellValue(sheetName, rowStr(13), p.UpdatedAt.Format(time.RFC3339))
	}

	return f, nil
}
