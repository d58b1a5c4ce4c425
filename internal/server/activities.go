package server

import (
	"fmt"
	"net/http"

	"group_project_service/internal/domain"
	"group_project_service/internal/infrastructure/projectapi"
	"group_project_service/pkg/errcodes"
)

func (s *Server) ListActivities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ids, err := queryParam[[]string](r, "id", false)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	activities, err := s.activities.List(ctx, ids...)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, activities)
}

func (s *Server) GetActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	activityID, err := pathParam[string](r, "activityID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	activity, err := s.activities.Get(ctx, activityID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, activity)
}

func (s *Server) ImportActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req activityRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	activity, messages, err := s.activities.Import(ctx, newDomainActivity(req))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, importResponse{Activity: activity, Messages: messages})
}

func (s *Server) GetUploads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	v, err := viewer(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	activityID, err := pathParam[string](r, "activityID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	activity, err := s.activities.Get(ctx, activityID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	uploads, err := s.submissions.Uploads(ctx, v, activity)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, uploads)
}

func (s *Server) GetProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	projectID, err := pathParam[int](r, "projectID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	project, err := s.projects.GetProjectDetails(ctx, projectID)
	if err != nil {
		if projectapi.StatusCode(err) == http.StatusNotFound {
			writeError(ctx, w, domain.WrapError(err, errcodes.NotFound, fmt.Sprintf("project %d not found", projectID)))
			return
		}
		writeError(ctx, w, domain.WrapError(err, errcodes.UpstreamError, "failed to get project details"))
		return
	}
	writeJSON(ctx, w, http.StatusOK, project)
}
