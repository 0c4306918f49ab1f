package httpserver

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/svaraband/storefront/internal/domain"
)

// handleAdminExportXLSX streams the catalog as a spreadsheet. Guarded by the
// admin API key header; there is no admin UI around it.
func (s *Server) handleAdminExportXLSX(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	if s.adminKey == "" || !secureCompare(r.Header.Get("X-Admin-Key"), s.adminKey) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	f := excelize.NewFile()
	sheet := "Catalog"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		http.Error(w, "sheet", http.StatusInternalServerError)
		return
	}
	headers := []string{"ID", "Name", "Brand", "Model", "Category", "Price", "Original Price", "Rating", "Reviews", "New", "Hot"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for row, p := range s.catalog.List(domain.FilterState{}) {
		orig := ""
		if p.OriginalPrice != nil {
			orig = fmt.Sprintf("%.2f", *p.OriginalPrice)
		}
		values := []any{p.ID, p.Name, p.Brand, p.Model, string(p.Category), p.Price, orig, p.Rating, p.Reviews, p.IsNew, p.IsHot}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="catalog.xlsx"`)
	if err := f.Write(w); err != nil {
		log.Error().Err(err).Msg("export: write xlsx")
	}
}
