package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/samber/lo"

	"group_project_service/internal/domain"
	"group_project_service/internal/domain/entity"
	"group_project_service/internal/infrastructure/projectapi"
	"group_project_service/pkg/errcodes"
)

const defaultMaxGrade = 100

type GradingService struct {
	activities ActivityRepository
	api        gradeAPI
	jobs       <-chan GradeJob
}

// NewGradingService creates the service. jobs feeds StartEventWorker and may
// be nil when grades are calculated by an external queue.
func NewGradingService(activities ActivityRepository, api gradeAPI, jobs <-chan GradeJob) *GradingService {
	return &GradingService{
		activities: activities,
		api:        api,
		jobs:       jobs,
	}
}

// CalculateGrade computes the grade of groupID from the group reviews of
// the activity. ok is false while the reviews are not complete enough to grade.
//
// Every assigned reviewer must have answered every grade question. A reviewer
// with a partial answer set is replaced by the mean of the complete admin
// answer sets, if there are any. Reviewers that are not assigned to the group
// are admins (TAs).
func (s *GradingService) CalculateGrade(ctx context.Context, activity entity.Activity, groupID int) (grade float64, ok bool, err error) {
	questions := gradeQuestionIDs(activity)

	items, err := s.api.GetWorkgroupReviewItemsForGroup(ctx, groupID, activity.ID)
	if err != nil {
		return 0, false, upstream(err, fmt.Sprintf("failed to get review items of workgroup %d", groupID))
	}
	reviewers, err := s.api.GetWorkgroupReviewers(ctx, groupID, activity.ID)
	if err != nil {
		return 0, false, upstream(err, fmt.Sprintf("failed to get reviewers of workgroup %d", groupID))
	}

	answers := make(map[string]map[string]string)
	var allReviewers []string
	for _, item := range items {
		if _, seen := answers[item.Reviewer]; !seen {
			answers[item.Reviewer] = make(map[string]string)
			allReviewers = append(allReviewers, item.Reviewer)
		}
		answers[item.Reviewer][item.Question] = item.Answer
	}

	// A reviewer assigned through more than one assignment counts once.
	groupReviewers := lo.Uniq(lo.Map(reviewers, func(u projectapi.UserSummary, _ int) string {
		return strconv.Itoa(u.ID)
	}))
	adminReviewers := lo.Without(allReviewers, groupReviewers...)

	gradeSet := func(reviewer string) ([]float64, bool) {
		values := make([]float64, 0, len(questions))
		for _, q := range questions {
			answer, answered := answers[reviewer][q]
			if !answered {
				return nil, false
			}
			v, err := strconv.ParseFloat(answer, 64)
			if err != nil {
				logger(ctx).Warn("non numeric grade answer",
					slog.String("reviewer", reviewer),
					slog.String("question", q),
					slog.String("answer", answer),
				)
				return nil, false
			}
			values = append(values, v)
		}
		return values, true
	}

	var adminGrades []float64
	var adminSets [][]float64
	for _, admin := range adminReviewers {
		if set, complete := gradeSet(admin); complete && len(set) > 0 {
			adminSets = append(adminSets, set)
		}
	}
	if len(adminSets) > 0 {
		adminGrades = make([]float64, len(questions))
		for i := range questions {
			adminGrades[i] = mean(lo.Map(adminSets, func(set []float64, _ int) float64 { return set[i] }))
		}
	}

	var reviewerGrades []float64
	switch {
	case len(groupReviewers) > 0:
		for _, reviewer := range groupReviewers {
			set, complete := gradeSet(reviewer)
			if !complete {
				if len(adminGrades) == 0 {
					return 0, false, nil
				}
				set = adminGrades
			}
			if len(set) > 0 {
				reviewerGrades = append(reviewerGrades, mean(set))
			}
		}
	case len(adminGrades) > 0:
		reviewerGrades = append(reviewerGrades, mean(adminGrades))
	}

	if len(reviewerGrades) == 0 {
		return 0, false, nil
	}
	return math.Round(mean(reviewerGrades)), true, nil
}

// AssignGrade calculates the grade of groupID and stores it in the project API.
func (s *GradingService) AssignGrade(ctx context.Context, job GradeJob) error {
	activity, err := getActivity(ctx, s.activities, job.ActivityID)
	if err != nil {
		return err
	}

	grade, ok, err := s.CalculateGrade(ctx, activity, job.GroupID)
	if err != nil {
		return err
	}
	if !ok {
		logger(ctx).Debug("group is not gradable yet",
			slog.String("activity_id", activity.ID),
			slog.Int("group_id", job.GroupID),
		)
		return nil
	}

	maxGrade := activity.Weight
	if maxGrade <= 0 {
		maxGrade = defaultMaxGrade
	}
	if err := s.api.SetGroupGrade(ctx, job.GroupID, activity.CourseID, activity.ID, grade, maxGrade); err != nil {
		return upstream(err, fmt.Sprintf("failed to set grade of workgroup %d", job.GroupID))
	}

	logger(ctx).Info("group graded",
		slog.String("activity_id", activity.ID),
		slog.Int("group_id", job.GroupID),
		slog.Float64("grade", grade),
	)
	return nil
}

// StartEventWorker calculates grades for jobs until ctx is done.
func (s *GradingService) StartEventWorker(ctx context.Context) {
	logger(ctx).Info("Starting grade worker...")
	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("Stopping grade worker...")
			return
		case job := <-s.jobs:
			if err := s.AssignGrade(ctx, job); err != nil {
				logger(ctx).Error("Failed to assign group grade",
					slog.Int("group_id", job.GroupID),
					slog.Any("error", err),
				)
			}
		}
	}
}

// ChanScheduler hands grade jobs to an in-process worker.
type ChanScheduler chan<- GradeJob

func (c ChanScheduler) ScheduleGrade(ctx context.Context, job GradeJob) error {
	select {
	case c <- job:
		return nil
	default:
		logger(ctx).Warn("Failed to publish grade job: channel is full", slog.Int("group_id", job.GroupID))
		return domain.NewError(errcodes.InternalServerError, "grade queue is full")
	}
}

// gradeQuestionIDs lists the grade question ids of every group review stage.
func gradeQuestionIDs(activity entity.Activity) []string {
	var ids []string
	for _, st := range activity.StagesByCategory(entity.CategoryGroupReviewStage) {
		for _, c := range st.Components {
			if c.Category == entity.CategoryReviewQuestion && c.Grade {
				ids = append(ids, c.QuestionID)
			}
		}
	}
	return lo.Uniq(ids)
}

func mean(values []float64) float64 {
	return lo.Sum(values) / float64(len(values))
}
