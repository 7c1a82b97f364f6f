package handlers

import (
	"fmt"
	"log"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
)

// HandleExportPDF renders the session's proposal as a PDF download. A render
// failure only fails this request; the session is left as it was.
// Route: GET /proposal/export/pdf
func HandleExportPDF(issuer services.Issuer, now func() time.Time) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s, err := requireSession(e)
		if s == nil {
			return err
		}

		doc := s.Proposal(issuer)
		pdfBytes, err := services.GenerateProposalPDF(doc, s.Customization())
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Não foi possível gerar o PDF. Tente novamente.")
		}

		filename := proposalFilename(doc.Metadata.ClientName, now(), "pdf")
		return sendAttachment(e, "application/pdf", filename, pdfBytes)
	}
}

// HandleExportExcel renders the session's proposal as a spreadsheet download.
// Route: GET /proposal/export/xlsx
func HandleExportExcel(issuer services.Issuer, now func() time.Time) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s, err := requireSession(e)
		if s == nil {
			return err
		}

		doc := s.Proposal(issuer)
		xlsxBytes, err := services.GenerateProposalExcel(doc, s.Customization())
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Não foi possível gerar a planilha. Tente novamente.")
		}

		filename := proposalFilename(doc.Metadata.ClientName, now(), "xlsx")
		return sendAttachment(e, xlsxContentType, filename, xlsxBytes)
	}
}

// proposalFilename builds "proposal_<client>_<YYYYMMDD>.<ext>".
func proposalFilename(client string, date time.Time, ext string) string {
	name := sanitizeFilename(strings.TrimSpace(client))
	if name == "" {
		name = services.DefaultClientName
	}
	return fmt.Sprintf("proposal_%s_%s.%s", name, date.Format("20060102"), ext)
}

// sanitizeFilename replaces characters that are unsafe in a download name.
func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':', '"', '*', '?', '<', '>', '|':
			return '-'
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

func sendAttachment(e *core.RequestEvent, contentType, filename string, data []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	e.Response.WriteHeader(http.StatusOK)
	_, err := e.Response.Write(data)
	return err
}
