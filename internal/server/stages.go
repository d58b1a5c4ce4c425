package server

import (
	"context"
	"net/http"

	"group_project_service/internal/domain/service"
)

type viewFunc func(ctx context.Context, viewer service.Viewer, activityID, stageID string) (string, error)

func (s *Server) renderView(w http.ResponseWriter, r *http.Request, view viewFunc) {
	ctx := r.Context()

	params, err := stageParamsFrom(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	params.viewer.ReviewTarget, err = queryParam[int](r, "target_id", false)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	html, err := view(ctx, params.viewer, params.activityID, params.stageID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeHTML(ctx, w, html)
}

func (s *Server) GetStudentView(w http.ResponseWriter, r *http.Request) {
	s.renderView(w, r, s.stages.StudentView)
}

func (s *Server) GetAuthorPreview(w http.ResponseWriter, r *http.Request) {
	s.renderView(w, r, s.stages.AuthorPreviewView)
}

func (s *Server) GetNavigationView(w http.ResponseWriter, r *http.Request) {
	s.renderView(w, r, s.stages.NavigationView)
}

func (s *Server) GetResourcesView(w http.ResponseWriter, r *http.Request) {
	s.renderView(w, r, s.stages.ResourcesView)
}

func (s *Server) GetSubmissionsView(w http.ResponseWriter, r *http.Request) {
	s.renderView(w, r, s.stages.SubmissionsView)
}

func (s *Server) GetStageState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := stageParamsFrom(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	state, err := s.stages.State(ctx, params.viewer, params.activityID, params.stageID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, stateResponse{State: state})
}

func (s *Server) PostStageComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := stageParamsFrom(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := s.stages.Complete(ctx, params.viewer, params.activityID, params.stageID); err != nil {
		writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetStageValidation is an author endpoint and needs no viewer.
func (s *Server) GetStageValidation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	activityID, err := pathParam[string](r, "activityID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	stageID, err := pathParam[string](r, "stageID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	messages, err := s.stages.Validate(ctx, activityID, stageID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, messages)
}
