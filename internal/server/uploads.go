package server

import (
	"io"
	"net/http"

	"subtrack/internal/uploads"
	"subtrack/pkg/types"

	"github.com/alexedwards/flow"
)

type uploadForm struct {
	Description string `form:"description"`
}

func (s *Service) handleUploadCertificate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subcontractorID := flow.Param(ctx, "id")

	uploaderID, err := s.userIDFromContext(ctx)
	if err != nil {
		s.logger.WithError(err).Error("ctx doesn't contain user")
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	// Hard cap on the request body; the service re-checks the declared
	// size against the 5 MiB limit.
	r.Body = http.MaxBytesReader(w, r.Body, uploads.MaxFileSizeBytes+(1<<20))

	if err := r.ParseMultipartForm(uploads.MaxFileSizeBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart payload or file too large")
		return
	}

	var form uploadForm
	if err := decoder.Decode(&form, r.MultipartForm.Value); err != nil {
		s.logger.WithError(err).Error("failed to decode upload form fields")
		s.respondError(w, http.StatusBadRequest, "invalid form fields")
		return
	}

	file, header, err := r.FormFile("certificate")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.logger.WithError(err).Error("failed to read uploaded file")
		s.respondError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	certificate := &types.CertificateFile{
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		Size:         header.Size,
		Data:         data,
	}

	upload, err := s.uploads.LinkFile(ctx, subcontractorID, certificate, uploaderID, form.Description)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondData(w, http.StatusCreated, upload)
}

func (s *Service) handleListUploads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subcontractorID := flow.Param(ctx, "id")

	records, err := s.uploads.ListFor(ctx, subcontractorID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.respondList(w, http.StatusOK, len(records), records)
}
