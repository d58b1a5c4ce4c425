package server

import (
	"time"

	"group_project_service/internal/domain/entity"
)

type activityRequest struct {
	ID          string         `json:"id"`
	CourseID    string         `json:"course_id" validate:"required"`
	ProjectID   int            `json:"project_id" validate:"gte=0"`
	DisplayName string         `json:"display_name"`
	Weight      float64        `json:"weight" validate:"gte=0"`
	Stages      []stageRequest `json:"stages" validate:"dive"`

	GroupReviewsRequiredCount int `json:"group_reviews_required_count" validate:"gte=0"`
	UserReviewsRequiredCount  int `json:"user_reviews_required_count" validate:"gte=0"`
}

type stageRequest struct {
	ID          string             `json:"id"`
	Category    string             `json:"category" validate:"required"`
	DisplayName string             `json:"display_name"`
	OpenDate    *time.Time         `json:"open_date"`
	CloseDate   *time.Time         `json:"close_date"`
	Components  []componentRequest `json:"components" validate:"dive"`
}

type componentRequest struct {
	entity.Component

	Category string `json:"category" validate:"required"`
}

type answersRequest struct {
	Answers map[string]string `json:"answers" validate:"required,min=1"`
}

type importResponse struct {
	Activity entity.Activity            `json:"activity"`
	Messages []entity.ValidationMessage `json:"messages"`
}

type stateResponse struct {
	State entity.StageState `json:"state"`
}

type answersResponse struct {
	Answers map[string]string `json:"answers"`
}

func newDomainActivity(req activityRequest) entity.Activity {
	stages := make([]entity.Stage, 0, len(req.Stages))
	for _, st := range req.Stages {
		components := make([]entity.Component, 0, len(st.Components))
		for _, c := range st.Components {
			component := c.Component
			component.Category = entity.ComponentCategory(c.Category)
			components = append(components, component)
		}
		stages = append(stages, entity.Stage{
			ID:          st.ID,
			Category:    entity.StageCategory(st.Category),
			DisplayName: st.DisplayName,
			OpenDate:    st.OpenDate,
			CloseDate:   st.CloseDate,
			Components:  components,
		})
	}

	return entity.Activity{
		ID:                        req.ID,
		CourseID:                  req.CourseID,
		ProjectID:                 req.ProjectID,
		DisplayName:               req.DisplayName,
		Weight:                    req.Weight,
		GroupReviewsRequiredCount: req.GroupReviewsRequiredCount,
		UserReviewsRequiredCount:  req.UserReviewsRequiredCount,
		Stages:                    stages,
	}
}
