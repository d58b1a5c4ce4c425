package server

import (
	"errors"
	"net/http"

	"group_project_service/internal/domain"
	"group_project_service/internal/domain/service"
)

const uploadFormField = "file"

func (s *Server) PostUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := stageParamsFrom(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	submissionID, err := pathParam[string](r, "submissionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(ctx, w, domain.NewValidationError("file is too large",
				domain.FieldError{Field: uploadFormField, Error: "exceeds the upload size limit"}))
			return
		}
		writeError(ctx, w, domain.NewValidationError("invalid multipart form",
			domain.FieldError{Field: "body", Error: err.Error()}))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		writeError(ctx, w, domain.NewValidationError("file is required",
			domain.FieldError{Field: uploadFormField, Error: err.Error()}))
		return
	}
	defer file.Close()

	upload, err := s.submissions.Upload(ctx, params.viewer, params.activityID, params.stageID, submissionID, service.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, upload)
}
