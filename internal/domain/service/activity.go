package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rs/xid"

	"group_project_service/internal/domain"
	"group_project_service/internal/domain/entity"
	"group_project_service/internal/domain/stage"
	"group_project_service/pkg/errcodes"
)

type ActivityService struct {
	repo ActivityRepository
}

func NewActivityService(repo ActivityRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

func (s *ActivityService) Get(ctx context.Context, id string) (entity.Activity, error) {
	return getActivity(ctx, s.repo, id)
}

func (s *ActivityService) List(ctx context.Context, ids ...string) ([]entity.Activity, error) {
	activities, err := s.repo.List(ctx, ids)
	if err != nil {
		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list activities")
	}
	if activities == nil {
		activities = []entity.Activity{}
	}
	return activities, nil
}

// Import assigns ids to the activity, its stages and components where they
// are missing, checks that every stage category is known and saves it.
// Stage validation messages are returned for the author to review; they do
// not prevent the import.
func (s *ActivityService) Import(ctx context.Context, activity entity.Activity) (entity.Activity, []entity.ValidationMessage, error) {
	if activity.CourseID == "" {
		return entity.Activity{}, nil, domain.NewValidationError("invalid activity",
			domain.FieldError{Field: "course_id", Error: "is required"})
	}
	if activity.ID == "" {
		activity.ID = xid.New().String()
	}

	var messages []entity.ValidationMessage
	seen := make(map[string]bool, len(activity.Stages))
	for i := range activity.Stages {
		st := &activity.Stages[i]
		if st.ID == "" {
			st.ID = xid.New().String()
		}
		if seen[st.ID] {
			return entity.Activity{}, nil, domain.NewValidationError("invalid activity",
				domain.FieldError{Field: fmt.Sprintf("stages[%d].id", i), Error: "duplicate stage id " + st.ID})
		}
		seen[st.ID] = true

		for j := range st.Components {
			if st.Components[j].ID == "" {
				st.Components[j].ID = xid.New().String()
			}
		}

		wrapped, err := stage.New(activity, *st)
		if err != nil {
			return entity.Activity{}, nil, err
		}
		messages = append(messages, wrapped.Validate()...)
	}

	if err := s.repo.Save(ctx, activity); err != nil {
		return entity.Activity{}, nil, domain.WrapError(err, errcodes.InternalServerError,
			fmt.Sprintf("failed to save activity %s", activity.ID))
	}

	logger(ctx).Info("activity imported",
		slog.String("activity_id", activity.ID),
		slog.Int("stages", len(activity.Stages)),
		slog.Int("validation_messages", len(messages)),
	)
	return activity, messages, nil
}
