package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/samber/lo"

	"group_project_service/internal/domain"
	"group_project_service/internal/domain/entity"
	"group_project_service/internal/domain/stage"
	"group_project_service/pkg/errcodes"
)

type peerAPI interface {
	workgroupAPI
	reviewAPI
}

type ReviewService struct {
	activities ActivityRepository
	api        peerAPI
	stages     *StageService
	grades     GradeScheduler
}

func NewReviewService(
	activities ActivityRepository,
	api peerAPI,
	stages *StageService,
	grades GradeScheduler,
) *ReviewService {
	return &ReviewService{
		activities: activities,
		api:        api,
		stages:     stages,
		grades:     grades,
	}
}

// Workgroup returns the viewer's workgroup in the activity course.
func (s *ReviewService) Workgroup(ctx context.Context, viewer Viewer, activity entity.Activity) (entity.Workgroup, error) {
	group, err := s.api.GetUserWorkgroupForCourse(ctx, viewer.UserID, activity.CourseID)
	if err != nil {
		return entity.Workgroup{}, upstream(err, "failed to get user workgroup")
	}
	if group == nil {
		return entity.Workgroup{}, domain.NewError(errcodes.NotInWorkgroup,
			fmt.Sprintf("user %d is not in a workgroup of course %s", viewer.UserID, activity.CourseID))
	}
	return toWorkgroup(*group), nil
}

func (s *ReviewService) Teammates(ctx context.Context, viewer Viewer, activityID string) ([]entity.Member, error) {
	activity, err := getActivity(ctx, s.activities, activityID)
	if err != nil {
		return nil, err
	}
	group, err := s.Workgroup(ctx, viewer, activity)
	if err != nil {
		return nil, err
	}
	return group.Teammates(viewer.UserID), nil
}

func (s *ReviewService) WorkgroupsToReview(ctx context.Context, viewer Viewer, activityID string) ([]entity.Workgroup, error) {
	activity, err := getActivity(ctx, s.activities, activityID)
	if err != nil {
		return nil, err
	}
	return s.workgroupsToReview(ctx, viewer, activity)
}

func (s *ReviewService) workgroupsToReview(ctx context.Context, viewer Viewer, activity entity.Activity) ([]entity.Workgroup, error) {
	groups, err := s.api.GetWorkgroupsToReview(ctx, viewer.UserID, activity.CourseID, activity.ID)
	if err != nil {
		return nil, upstream(err, "failed to get workgroups to review")
	}
	workgroups := make([]entity.Workgroup, 0, len(groups))
	for _, g := range groups {
		workgroups = append(workgroups, toWorkgroup(g))
	}
	return workgroups, nil
}

// Reviewers lists the users assigned to review groupID.
func (s *ReviewService) Reviewers(ctx context.Context, activityID string, groupID int) ([]entity.Member, error) {
	activity, err := getActivity(ctx, s.activities, activityID)
	if err != nil {
		return nil, err
	}
	users, err := s.api.GetWorkgroupReviewers(ctx, groupID, activity.ID)
	if err != nil {
		return nil, upstream(err, fmt.Sprintf("failed to get reviewers of workgroup %d", groupID))
	}
	return toMembers(users), nil
}

// PeerReview returns the viewer's answers about peerID.
func (s *ReviewService) PeerReview(ctx context.Context, viewer Viewer, activityID, stageID string, peerID int) (map[string]string, error) {
	st, group, err := s.peerReviewStage(ctx, viewer, activityID, stageID, peerID)
	if err != nil {
		return nil, err
	}
	items, err := s.api.GetPeerReviewItems(ctx, viewer.UserID, peerID, group.ID, st.Activity().ID)
	if err != nil {
		return nil, upstream(err, "failed to get peer review items")
	}
	return answersByQuestion(items), nil
}

// SubmitPeerReview stores the viewer's answers about peerID. Once the viewer
// has answered every required question for every teammate the stage is
// marked complete for them.
func (s *ReviewService) SubmitPeerReview(
	ctx context.Context,
	viewer Viewer,
	activityID, stageID string,
	peerID int,
	answers map[string]string,
) error {
	st, group, err := s.peerReviewStage(ctx, viewer, activityID, stageID, peerID)
	if err != nil {
		return err
	}
	if st.IsClosed(nowFunc()) {
		return domain.NewError(errcodes.StageClosed, fmt.Sprintf("stage %s is closed", stageID))
	}
	if err := checkAnswers(st, answers); err != nil {
		return err
	}

	activity := st.Activity()
	if err := s.api.SubmitPeerReviewItems(ctx, viewer.UserID, peerID, group.ID, activity.ID, answers); err != nil {
		return upstream(err, "failed to submit peer review")
	}

	logger(ctx).Info("peer review submitted",
		slog.String("activity_id", activity.ID),
		slog.Int("reviewer_id", viewer.UserID),
		slog.Int("peer_id", peerID),
	)

	for _, peer := range group.Teammates(viewer.UserID) {
		items, err := s.api.GetPeerReviewItems(ctx, viewer.UserID, peer.ID, group.ID, activity.ID)
		if err != nil {
			return upstream(err, "failed to get peer review items")
		}
		if !answeredAll(st, answersByQuestion(items)) {
			return nil
		}
	}
	return s.stages.MarkComplete(ctx, activity, viewer.UserID, stageID)
}

// GroupReview returns the viewer's answers about groupID.
func (s *ReviewService) GroupReview(ctx context.Context, viewer Viewer, activityID, stageID string, groupID int) (map[string]string, error) {
	st, err := s.groupReviewStage(ctx, viewer, activityID, stageID, groupID)
	if err != nil {
		return nil, err
	}
	items, err := s.api.GetWorkgroupReviewItems(ctx, viewer.UserID, groupID, st.Activity().ID)
	if err != nil {
		return nil, upstream(err, "failed to get workgroup review items")
	}
	return answersByQuestion(items), nil
}

// SubmitGroupReview stores the viewer's answers about groupID and queues the
// group's grade for recalculation.
func (s *ReviewService) SubmitGroupReview(
	ctx context.Context,
	viewer Viewer,
	activityID, stageID string,
	groupID int,
	answers map[string]string,
) error {
	st, err := s.groupReviewStage(ctx, viewer, activityID, stageID, groupID)
	if err != nil {
		return err
	}
	if st.IsClosed(nowFunc()) {
		return domain.NewError(errcodes.StageClosed, fmt.Sprintf("stage %s is closed", stageID))
	}
	if err := checkAnswers(st, answers); err != nil {
		return err
	}

	activity := st.Activity()
	if err := s.api.SubmitWorkgroupReviewItems(ctx, viewer.UserID, groupID, activity.ID, answers); err != nil {
		return upstream(err, "failed to submit group review")
	}

	logger(ctx).Info("group review submitted",
		slog.String("activity_id", activity.ID),
		slog.Int("reviewer_id", viewer.UserID),
		slog.Int("group_id", groupID),
	)

	if err := s.grades.ScheduleGrade(ctx, GradeJob{ActivityID: activity.ID, GroupID: groupID}); err != nil {
		logger(ctx).Error("failed to schedule grade calculation",
			slog.Int("group_id", groupID),
			slog.Any("error", err),
		)
	}

	// TAs have no assigned groups, so the stage never completes for them.
	if viewer.AdminGrader {
		return nil
	}
	groups, err := s.workgroupsToReview(ctx, viewer, activity)
	if err != nil {
		return err
	}
	for _, g := range groups {
		items, err := s.api.GetWorkgroupReviewItems(ctx, viewer.UserID, g.ID, activity.ID)
		if err != nil {
			return upstream(err, "failed to get workgroup review items")
		}
		if !answeredAll(st, answersByQuestion(items)) {
			return nil
		}
	}
	return s.stages.MarkComplete(ctx, activity, viewer.UserID, stageID)
}

func (s *ReviewService) peerReviewStage(
	ctx context.Context,
	viewer Viewer,
	activityID, stageID string,
	peerID int,
) (stage.Reviewer, entity.Workgroup, error) {
	st, err := s.stages.Stage(ctx, viewer, activityID, stageID)
	if err != nil {
		return nil, entity.Workgroup{}, err
	}
	reviewer, ok := st.(*stage.PeerReviewStage)
	if !ok {
		return nil, entity.Workgroup{}, domain.NewError(errcodes.InvalidArgument,
			fmt.Sprintf("stage %s is not a peer review stage", stageID))
	}

	group, err := s.Workgroup(ctx, viewer, st.Activity())
	if err != nil {
		return nil, entity.Workgroup{}, err
	}
	isTeammate := lo.ContainsBy(group.Teammates(viewer.UserID), func(m entity.Member) bool {
		return m.ID == peerID
	})
	if !isTeammate {
		return nil, entity.Workgroup{}, domain.NewError(errcodes.NotInWorkgroup,
			fmt.Sprintf("user %d is not a teammate of user %d", peerID, viewer.UserID))
	}
	return reviewer, group, nil
}

func (s *ReviewService) groupReviewStage(
	ctx context.Context,
	viewer Viewer,
	activityID, stageID string,
	groupID int,
) (stage.Reviewer, error) {
	st, err := s.stages.Stage(ctx, viewer, activityID, stageID)
	if err != nil {
		return nil, err
	}
	reviewer, ok := st.(*stage.GroupReviewStage)
	if !ok {
		return nil, domain.NewError(errcodes.InvalidArgument,
			fmt.Sprintf("stage %s is not a group review stage", stageID))
	}

	// TAs review any group; students only the groups assigned to them.
	if viewer.AdminGrader {
		return reviewer, nil
	}
	groups, err := s.workgroupsToReview(ctx, viewer, st.Activity())
	if err != nil {
		return nil, err
	}
	if !lo.ContainsBy(groups, func(g entity.Workgroup) bool { return g.ID == groupID }) {
		return nil, domain.NewError(errcodes.NotInWorkgroup,
			fmt.Sprintf("workgroup %d is not assigned to user %d for review", groupID, viewer.UserID))
	}
	return reviewer, nil
}

// checkAnswers rejects answers to unknown questions and missing answers to
// required ones.
func checkAnswers(st stage.Reviewer, answers map[string]string) error {
	known := lo.SliceToMap(st.Questions(), func(q entity.Component) (string, entity.Component) {
		return q.QuestionID, q
	})

	questions := lo.Keys(answers)
	sort.Strings(questions)

	var fields []domain.FieldError
	for _, question := range questions {
		if _, ok := known[question]; !ok {
			fields = append(fields, domain.FieldError{Field: question, Error: "unknown question"})
		}
	}
	for _, q := range st.Questions() {
		if q.Required && strings.TrimSpace(answers[q.QuestionID]) == "" {
			fields = append(fields, domain.FieldError{Field: q.QuestionID, Error: "answer is required"})
		}
	}
	if len(fields) > 0 {
		return domain.NewValidationError("invalid review answers", fields...)
	}
	return nil
}

func answeredAll(st stage.Reviewer, answers map[string]string) bool {
	return lo.EveryBy(st.Questions(), func(q entity.Component) bool {
		return !q.Required || strings.TrimSpace(answers[q.QuestionID]) != ""
	})
}
