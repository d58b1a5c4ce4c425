package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"group_project_service/internal/domain/entity"
	"group_project_service/internal/domain/service"
	"group_project_service/internal/infrastructure/projectapi"
	"group_project_service/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type ActivityService interface {
	Get(ctx context.Context, id string) (entity.Activity, error)
	List(ctx context.Context, ids ...string) ([]entity.Activity, error)
	Import(ctx context.Context, activity entity.Activity) (entity.Activity, []entity.ValidationMessage, error)
}

// StageService renders stage fragments and tracks stage completion.
type StageService interface {
	StudentView(ctx context.Context, viewer service.Viewer, activityID, stageID string) (string, error)
	AuthorPreviewView(ctx context.Context, viewer service.Viewer, activityID, stageID string) (string, error)
	NavigationView(ctx context.Context, viewer service.Viewer, activityID, stageID string) (string, error)
	ResourcesView(ctx context.Context, viewer service.Viewer, activityID, stageID string) (string, error)
	SubmissionsView(ctx context.Context, viewer service.Viewer, activityID, stageID string) (string, error)
	State(ctx context.Context, viewer service.Viewer, activityID, stageID string) (entity.StageState, error)
	Complete(ctx context.Context, viewer service.Viewer, activityID, stageID string) error
	Validate(ctx context.Context, activityID, stageID string) ([]entity.ValidationMessage, error)
}

type ReviewService interface {
	Teammates(ctx context.Context, viewer service.Viewer, activityID string) ([]entity.Member, error)
	WorkgroupsToReview(ctx context.Context, viewer service.Viewer, activityID string) ([]entity.Workgroup, error)
	Reviewers(ctx context.Context, activityID string, groupID int) ([]entity.Member, error)
	PeerReview(ctx context.Context, viewer service.Viewer, activityID, stageID string, peerID int) (map[string]string, error)
	SubmitPeerReview(ctx context.Context, viewer service.Viewer, activityID, stageID string, peerID int, answers map[string]string) error
	GroupReview(ctx context.Context, viewer service.Viewer, activityID, stageID string, groupID int) (map[string]string, error)
	SubmitGroupReview(ctx context.Context, viewer service.Viewer, activityID, stageID string, groupID int, answers map[string]string) error
}

type SubmissionService interface {
	Upload(ctx context.Context, viewer service.Viewer, activityID, stageID, submissionID string, file service.File) (entity.Upload, error)
	Uploads(ctx context.Context, viewer service.Viewer, activity entity.Activity) (map[string]entity.Upload, error)
}

type ProjectService interface {
	GetProjectDetails(ctx context.Context, projectID int) (projectapi.ProjectDetails, error)
}

type Server struct {
	activities  ActivityService
	stages      StageService
	reviews     ReviewService
	submissions SubmissionService
	projects    ProjectService

	maxUploadBytes int64
}

func NewServer(
	activitySvc ActivityService,
	stageSvc StageService,
	reviewSvc ReviewService,
	submissionSvc SubmissionService,
	projectSvc ProjectService,
	maxUploadBytes int64,
) *Server {
	return &Server{
		activities:     activitySvc,
		stages:         stageSvc,
		reviews:        reviewSvc,
		submissions:    submissionSvc,
		projects:       projectSvc,
		maxUploadBytes: maxUploadBytes,
	}
}

func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/projects/{projectID}", s.GetProject)

	r.Route("/activities", func(r chi.Router) {
		r.Get("/", s.ListActivities)
		r.Post("/", s.ImportActivity)

		r.Route("/{activityID}", func(r chi.Router) {
			r.Get("/", s.GetActivity)
			r.Get("/teammates", s.GetTeammates)
			r.Get("/workgroups_to_review", s.GetWorkgroupsToReview)
			r.Get("/workgroups/{groupID}/reviewers", s.GetReviewers)
			r.Get("/uploads", s.GetUploads)

			r.Route("/stages/{stageID}", func(r chi.Router) {
				r.Get("/", s.GetStudentView)
				r.Get("/preview", s.GetAuthorPreview)
				r.Get("/navigation", s.GetNavigationView)
				r.Get("/resources", s.GetResourcesView)
				r.Get("/submissions", s.GetSubmissionsView)
				r.Get("/state", s.GetStageState)
				r.Post("/complete", s.PostStageComplete)
				r.Get("/validation", s.GetStageValidation)

				r.Get("/peer_reviews", s.GetPeerReview)
				r.Post("/peer_reviews", s.PostPeerReview)
				r.Get("/group_reviews", s.GetGroupReview)
				r.Post("/group_reviews", s.PostGroupReview)

				r.Post("/uploads/{submissionID}", s.PostUpload)
			})
		})
	})
}

func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}
