package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"group_project_service/internal/domain"
	"group_project_service/internal/domain/entity"
	"group_project_service/internal/domain/stage"
	"group_project_service/internal/infrastructure/projectapi"
	"group_project_service/internal/render"
	"group_project_service/pkg/errcodes"
)

type stageAPI interface {
	workgroupAPI
	completionAPI
	reviewAPI
	submissionAPI
}

type StageService struct {
	activities ActivityRepository
	api        stageAPI
}

func NewStageService(activities ActivityRepository, api stageAPI) *StageService {
	return &StageService{
		activities: activities,
		api:        api,
	}
}

// Stage loads stageID of activityID as seen by viewer.
func (s *StageService) Stage(ctx context.Context, viewer Viewer, activityID, stageID string) (stage.Stage, error) {
	activity, err := getActivity(ctx, s.activities, activityID)
	if err != nil {
		return nil, err
	}
	return stage.Lookup(activity, stageID, stage.WithAdminGrader(viewer.AdminGrader))
}

// MarkComplete records that userID completed the stage. A completion that
// already exists is not an error.
func (s *StageService) MarkComplete(ctx context.Context, activity entity.Activity, userID int, stageID string) error {
	err := s.api.MarkAsComplete(ctx, activity.CourseID, activity.ID, userID, stageID)
	if err == nil {
		return nil
	}
	if projectapi.StatusCode(err) == http.StatusConflict {
		logger(ctx).Debug("stage already completed",
			slog.String("activity_id", activity.ID),
			slog.String("stage_id", stageID),
			slog.Int("user_id", userID),
		)
		return nil
	}
	return upstream(err, fmt.Sprintf("failed to mark stage %s complete for user %d", stageID, userID))
}

// Complete marks the stage complete for the viewer.
func (s *StageService) Complete(ctx context.Context, viewer Viewer, activityID, stageID string) error {
	st, err := s.Stage(ctx, viewer, activityID, stageID)
	if err != nil {
		return err
	}
	if st.IsClosed(nowFunc()) {
		return domain.NewError(errcodes.StageClosed, fmt.Sprintf("stage %s is closed", stageID))
	}
	return s.MarkComplete(ctx, st.Activity(), viewer.UserID, stageID)
}

func (s *StageService) GetStageState(ctx context.Context, activity entity.Activity, userID int, stageID string) (entity.StageState, error) {
	usersInGroup, completedUsers, err := s.api.GetStageState(ctx, activity.CourseID, activity.ID, userID, stageID)
	if err != nil {
		return "", upstream(err, fmt.Sprintf("failed to get state of stage %s", stageID))
	}
	return stage.ComputeState(usersInGroup, completedUsers), nil
}

// State returns the completion state of the stage for the viewer's workgroup.
func (s *StageService) State(ctx context.Context, viewer Viewer, activityID, stageID string) (entity.StageState, error) {
	st, err := s.Stage(ctx, viewer, activityID, stageID)
	if err != nil {
		return "", err
	}
	return s.GetStageState(ctx, st.Activity(), viewer.UserID, stageID)
}

func (s *StageService) StudentView(ctx context.Context, viewer Viewer, activityID, stageID string) (string, error) {
	return s.view(ctx, viewer, activityID, stageID, render.StudentView)
}

// AuthorPreviewView shows authors exactly what students see.
func (s *StageService) AuthorPreviewView(ctx context.Context, viewer Viewer, activityID, stageID string) (string, error) {
	return s.StudentView(ctx, viewer, activityID, stageID)
}

func (s *StageService) NavigationView(ctx context.Context, viewer Viewer, activityID, stageID string) (string, error) {
	st, err := s.Stage(ctx, viewer, activityID, stageID)
	if err != nil {
		return "", err
	}
	state, err := s.GetStageState(ctx, st.Activity(), viewer.UserID, stageID)
	if err != nil {
		return "", err
	}
	return renderString(ctx, render.Navigation(st, state))
}

func (s *StageService) ResourcesView(ctx context.Context, viewer Viewer, activityID, stageID string) (string, error) {
	st, err := s.Stage(ctx, viewer, activityID, stageID)
	if err != nil {
		return "", err
	}
	return renderString(ctx, render.Resources(st, render.ViewContext{UserID: viewer.UserID, Now: nowFunc()}))
}

func (s *StageService) SubmissionsView(ctx context.Context, viewer Viewer, activityID, stageID string) (string, error) {
	return s.view(ctx, viewer, activityID, stageID, render.Submissions)
}

// Validate reports configuration problems of the stage.
func (s *StageService) Validate(ctx context.Context, activityID, stageID string) ([]entity.ValidationMessage, error) {
	st, err := s.Stage(ctx, Viewer{}, activityID, stageID)
	if err != nil {
		return nil, err
	}
	messages := st.Validate()
	if messages == nil {
		messages = []entity.ValidationMessage{}
	}
	return messages, nil
}

func (s *StageService) view(
	ctx context.Context,
	viewer Viewer,
	activityID, stageID string,
	component func(stage.Stage, render.ViewContext) templ.Component,
) (string, error) {
	st, err := s.Stage(ctx, viewer, activityID, stageID)
	if err != nil {
		return "", err
	}
	vc, err := s.viewContext(ctx, viewer, st)
	if err != nil {
		return "", err
	}
	return renderString(ctx, component(st, vc))
}

// viewContext collects what the viewer needs to see on the stage. Viewers
// outside any workgroup get the bare stage. Review stages carry the viewer's
// saved answers about the review target.
func (s *StageService) viewContext(ctx context.Context, viewer Viewer, st stage.Stage) (render.ViewContext, error) {
	activity := st.Activity()
	vc := render.ViewContext{UserID: viewer.UserID, Now: nowFunc()}

	group, err := s.api.GetUserWorkgroupForCourse(ctx, viewer.UserID, activity.CourseID)
	if err != nil {
		return vc, upstream(err, "failed to get user workgroup")
	}
	if group == nil {
		return vc, nil
	}
	workgroup := toWorkgroup(*group)
	vc.Teammates = workgroup.Teammates(viewer.UserID)

	switch st.(type) {
	case *stage.SubmissionStage:
		submissions, err := s.api.GetLatestWorkgroupSubmissions(ctx, group.ID)
		if err != nil {
			return vc, upstream(err, "failed to get workgroup submissions")
		}
		vc.Uploads = make(map[string]entity.Upload, len(submissions))
		for id, sub := range submissions {
			vc.Uploads[id] = toUpload(sub)
		}
	case *stage.PeerReviewStage:
		vc.ReviewTarget = viewer.ReviewTarget
		if vc.ReviewTarget == 0 && len(vc.Teammates) > 0 {
			vc.ReviewTarget = vc.Teammates[0].ID
		}
		if vc.ReviewTarget == 0 {
			break
		}
		items, err := s.api.GetPeerReviewItems(ctx, viewer.UserID, vc.ReviewTarget, group.ID, activity.ID)
		if err != nil {
			return vc, upstream(err, "failed to get peer review items")
		}
		vc.Answers = answersByQuestion(items)
	case *stage.GroupReviewStage:
		groups, err := s.api.GetWorkgroupsToReview(ctx, viewer.UserID, activity.CourseID, activity.ID)
		if err != nil {
			return vc, upstream(err, "failed to get workgroups to review")
		}
		for _, g := range groups {
			vc.Workgroups = append(vc.Workgroups, toWorkgroup(g))
		}
		vc.ReviewTarget = viewer.ReviewTarget
		if vc.ReviewTarget == 0 && len(vc.Workgroups) > 0 {
			vc.ReviewTarget = vc.Workgroups[0].ID
		}
		if vc.ReviewTarget == 0 {
			break
		}
		items, err := s.api.GetWorkgroupReviewItems(ctx, viewer.UserID, vc.ReviewTarget, activity.ID)
		if err != nil {
			return vc, upstream(err, "failed to get workgroup review items")
		}
		vc.Answers = answersByQuestion(items)
	case *stage.PeerAssessmentStage:
		items, err := s.api.GetUserPeerReviewItems(ctx, viewer.UserID, group.ID, activity.ID)
		if err != nil {
			return vc, upstream(err, "failed to get peer review items")
		}
		vc.Received = receivedByQuestion(items)
	case *stage.GroupAssessmentStage:
		items, err := s.api.GetWorkgroupReviewItemsForGroup(ctx, group.ID, activity.ID)
		if err != nil {
			return vc, upstream(err, "failed to get workgroup review items")
		}
		vc.Received = receivedByQuestion(items)
	}
	return vc, nil
}

func renderString(ctx context.Context, c templ.Component) (string, error) {
	out, err := render.String(ctx, c)
	if err != nil {
		return "", domain.WrapError(err, errcodes.InternalServerError, "failed to render stage")
	}
	return out, nil
}
