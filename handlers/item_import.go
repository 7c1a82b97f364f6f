package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
)

// maxUploadSize bounds spreadsheet and image uploads.
const maxUploadSize = 10 << 20

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HandleItemImport replaces the item list with the rows of an uploaded
// spreadsheet. Import errors are shown to the user verbatim and leave the
// list untouched.
// Route: POST /proposal/items/import
func HandleItemImport() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s, err := requireSession(e)
		if s == nil {
			return err
		}

		fileName, data, err := readUpload(e, "file")
		if err != nil {
			log.Printf("item_import: %v", err)
			return ErrorToast(e, http.StatusBadRequest, "Selecione um arquivo .xlsx ou .csv")
		}

		out, err := s.ImportItems(fileName, data)
		if err != nil {
			var ie *services.ImportError
			if errors.As(err, &ie) {
				log.Printf("item_import: rejected %s: %v", fileName, err)
				return ErrorToast(e, http.StatusUnprocessableEntity, ie.Error())
			}
			log.Printf("item_import: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Não foi possível importar o arquivo")
		}

		if out.Skipped {
			SetToast(e, ToastInfo, fmt.Sprintf("O arquivo %s já foi importado", fileName))
		} else {
			SetToast(e, ToastSuccess, fmt.Sprintf("%d itens importados de %s", out.Imported, fileName))
		}
		return renderItems(e, s, out.Snapshot)
	}
}

// HandleItemTemplateDownload serves the import template spreadsheet.
// Route: GET /proposal/items/template
func HandleItemTemplateDownload() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := services.GenerateItemTemplate()
		if err != nil {
			log.Printf("item_template: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Não foi possível gerar o modelo")
		}
		return sendAttachment(e, xlsxContentType, "modelo_itens.xlsx", data)
	}
}

// readUpload reads a multipart file field. It returns http.ErrMissingFile
// when the field is absent or empty.
func readUpload(e *core.RequestEvent, field string) (string, []byte, error) {
	if e.Request.MultipartForm == nil {
		if err := e.Request.ParseMultipartForm(maxUploadSize); err != nil {
			return "", nil, fmt.Errorf("parse multipart form: %w", err)
		}
	}

	file, header, err := e.Request.FormFile(field)
	if err != nil {
		return "", nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", field, err)
	}
	if len(data) > maxUploadSize {
		return "", nil, fmt.Errorf("%s exceeds %d bytes", field, maxUploadSize)
	}
	if len(data) == 0 {
		return "", nil, http.ErrMissingFile
	}
	return header.Filename, data, nil
}
