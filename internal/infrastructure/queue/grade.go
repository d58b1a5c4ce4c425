package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"group_project_service/internal/domain"
	"group_project_service/internal/domain/service"
	"group_project_service/pkg/contextx"
	"group_project_service/pkg/errcodes"
)

const TypeCalculateGrade = "group_project:calculate_grade"

const (
	gradeMaxRetry = 5
	gradeTimeout  = time.Minute
)

var (
	logger = contextx.LoggerFromContextOrDefault       //nolint:gochecknoglobals
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals
)

func NewGradeTask(job service.GradeJob) (*asynq.Task, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}
	return asynq.NewTask(TypeCalculateGrade, payload,
		asynq.MaxRetry(gradeMaxRetry),
		asynq.Timeout(gradeTimeout),
	), nil
}

// GradeQueue schedules grade calculations on redis.
type GradeQueue struct {
	client *asynq.Client
}

func NewGradeQueue(redis asynq.RedisConnOpt) *GradeQueue {
	return &GradeQueue{client: asynq.NewClient(redis)}
}

func (q *GradeQueue) ScheduleGrade(ctx context.Context, job service.GradeJob) error {
	task, err := NewGradeTask(job)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to build grade task")
	}

	info, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to enqueue grade task")
	}

	logger(ctx).Debug("grade task enqueued",
		slog.String("task_id", info.ID),
		slog.String("activity_id", job.ActivityID),
		slog.Int("group_id", job.GroupID),
	)
	return nil
}

func (q *GradeQueue) Close() error {
	return q.client.Close()
}

type GradeAssigner interface {
	AssignGrade(ctx context.Context, job service.GradeJob) error
}

// NewHandler routes queued tasks to the grading service.
func NewHandler(grades GradeAssigner) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeCalculateGrade, calculateGradeHandler(grades))
	return mux
}

func calculateGradeHandler(grades GradeAssigner) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var job service.GradeJob
		if err := json.Unmarshal(task.Payload(), &job); err != nil {
			logger(ctx).Error("malformed grade task", slog.Any("error", err))
			return fmt.Errorf("json.Unmarshal: %v: %w", err, asynq.SkipRetry)
		}

		if err := grades.AssignGrade(ctx, job); err != nil {
			if code := domain.CodeOf(err); code == errcodes.NotFound || code == errcodes.InvalidArgument {
				return fmt.Errorf("grade %s/%d: %v: %w", job.ActivityID, job.GroupID, err, asynq.SkipRetry)
			}
			return fmt.Errorf("grade %s/%d: %w", job.ActivityID, job.GroupID, err)
		}
		return nil
	}
}
