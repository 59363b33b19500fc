package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"costsheet/services"
)

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

// HandleSheetExportExcel generates and downloads an Excel file for a worksheet.
func HandleSheetExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sheet, err := findSheet(app, e)
		if err != nil {
			return err
		}

		data, err := services.BuildSheetExportData(app, sheet)
		if err != nil {
			log.Printf("sheet_export: excel: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not assemble export data")
		}

		xlsxBytes, err := services.GenerateSheetExcel(data)
		if err != nil {
			log.Printf("sheet_export: excel: failed to generate: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("%s_%d.xlsx", sanitizeFilename(data.Reference), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleSheetExportPDF generates and downloads a PDF file for a worksheet.
func HandleSheetExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sheet, err := findSheet(app, e)
		if err != nil {
			return err
		}

		data, err := services.BuildSheetExportData(app, sheet)
		if err != nil {
			log.Printf("sheet_export: pdf: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Could not assemble export data")
		}

		pdfBytes, err := services.GenerateSheetPDF(data)
		if err != nil {
			log.Printf("sheet_export: pdf: failed to generate: %v", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := fmt.Sprintf("%s_%d.pdf", sanitizeFilename(data.Reference), time.Now().Year())

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}
