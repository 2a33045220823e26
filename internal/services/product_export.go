package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"storefront-admin-service/internal/models"
)

const (
	exportSheetName = "Products"
	exportPageSize  = 100
	exportMaxPages  = 50
)

var exportColumns = []string{
	"ID", "Title", "Category", "Sub Category", "Country", "Price", "Stock",
	"Featured", "Best Seller", "Active", "Keywords", "Sizes", "Images",
}

// Export writes every product matching search to an xlsx workbook
func (s *ProductService) Export(ctx context.Context, sess Session, search string) (*bytes.Buffer, error) {
	products, err := s.collect(ctx, sess, search)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", exportSheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, name := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheetName, cell, name)
		f.SetCellStyle(exportSheetName, cell, cell, headerStyle)

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(exportSheetName, colName, colName, 20)
	}

	for r, p := range products {
		row := []interface{}{
			p.ID, p.Title, p.Category, p.SubCategory, p.Country, p.Price, p.Stock,
			p.IsFeatured, p.IsBestSeller, p.IsActive,
			strings.Join(p.Keywords, ", "), sizeSummary(p.SizeOptions), strings.Join(p.Images, "\n"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write export row %d: %w", r+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write export workbook: %w", err)
	}
	s.logger.WithField("rows", len(products)).Info("Product export generated")
	return buf, nil
}

// collect pages through the catalog
func (s *ProductService) collect(ctx context.Context, sess Session, search string) ([]models.Product, error) {
	var all []models.Product
	for page := 1; page <= exportMaxPages; page++ {
		result, err := s.api.ListProducts(ctx, sess.Token, models.ProductListParams{Page: page, Limit: exportPageSize, Search: search})
		if err != nil {
			return nil, err
		}
		all = append(all, result.Products...)

		if result.Pagination == nil {
			if len(result.Products) < exportPageSize {
				break
			}
			continue
		}
		if !result.Pagination.HasNext || page >= result.Pagination.TotalPages {
			break
		}
	}
	return all, nil
}

func sizeSummary(sizes []models.SizeOption) string {
	parts := make([]string, 0, len(sizes))
	for _, s := range sizes {
		parts = append(parts, fmt.Sprintf("%s: %.2f", s.Name, s.Price))
	}
	return strings.Join(parts, ", ")
}
