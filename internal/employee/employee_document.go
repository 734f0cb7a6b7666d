package employee

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"go-payroll/internal/shared/apperror"
)

const MaxDocumentSize = 5 << 20

var requiredDocuments = []string{DocumentTD1Federal, DocumentTD1Provincial}

// DocumentUpload is an uploaded file that already passed the size and PDF
// checks.
type DocumentUpload struct {
	Type        string
	FileName    string
	ContentType string
	Data        []byte
}

// readDocuments pulls every required document out of the multipart form and
// reports each missing or invalid one.
func readDocuments(form *multipart.Form) ([]DocumentUpload, apperror.FieldErrors) {
	var (
		docs []DocumentUpload
		errs apperror.FieldErrors
	)
	for _, docType := range requiredDocuments {
		var files []*multipart.FileHeader
		if form != nil {
			files = form.File[docType]
		}
		if len(files) == 0 {
			errs = append(errs, apperror.RequiredField(docType))
			continue
		}

		doc, msg := readDocument(docType, files[0])
		if msg != "" {
			errs.Add(docType, msg)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, errs
}

func readDocument(docType string, fh *multipart.FileHeader) (DocumentUpload, string) {
	if fh.Size > MaxDocumentSize {
		return DocumentUpload{}, fmt.Sprintf("%s must be at most 5MB", docType)
	}

	f, err := fh.Open()
	if err != nil {
		return DocumentUpload{}, fmt.Sprintf("%s could not be read", docType)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxDocumentSize+1))
	if err != nil {
		return DocumentUpload{}, fmt.Sprintf("%s could not be read", docType)
	}
	if len(data) > MaxDocumentSize {
		return DocumentUpload{}, fmt.Sprintf("%s must be at most 5MB", docType)
	}
	if len(data) == 0 || http.DetectContentType(data) != "application/pdf" {
		return DocumentUpload{}, fmt.Sprintf("%s must be a PDF file", docType)
	}

	return DocumentUpload{
		Type:        docType,
		FileName:    filepath.Base(fh.Filename),
		ContentType: "application/pdf",
		Data:        data,
	}, ""
}
