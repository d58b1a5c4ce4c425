package stage

import (
	"fmt"
	"time"

	"group_project_service/internal/domain"
	"group_project_service/internal/domain/entity"
	"group_project_service/pkg/errcodes"
)

const dateFormat = "Jan 02"

// NestedBlock is a component category a stage accepts, with the caption
// shown to authors.
type NestedBlock struct {
	Category entity.ComponentCategory `json:"category"`
	Caption  string                   `json:"caption"`
}

// Stage is one step of a group project activity as seen by a single viewer.
type Stage interface {
	ID() string
	DisplayName() string
	Entity() entity.Stage
	Activity() entity.Activity

	// Type is the label shown in navigation: Text, Task, Grade or Evaluation.
	Type() string
	// Kind names the concrete stage in author-facing messages.
	Kind() string
	StageType() entity.StageType
	// ContentTemplate names the template the stage content is wrapped in, if any.
	ContentTemplate() string

	AllowedNestedBlocks() []NestedBlock
	Components() []entity.Component
	Resources() []entity.Component
	GradingCriteria() []entity.Component

	IsOpen(now time.Time) bool
	IsClosed(now time.Time) bool
	FormattedOpenDate() string
	FormattedCloseDate() string

	Validate() []entity.ValidationMessage
}

// Uploader is implemented by stages that collect group submissions.
type Uploader interface {
	Stage
	Submissions() []entity.Component
	HasSubmissions() bool
	IsUploadAvailable(now time.Time) bool
	HasAllSubmissions(uploaded []string) bool
}

// Reviewer is implemented by peer and group review stages.
type Reviewer interface {
	Stage
	Questions() []entity.Component
	GradeQuestions() []entity.Component
}

// Assessor is implemented by stages that show review results back to students.
type Assessor interface {
	Stage
	Assessments() []entity.Component
}

type options struct {
	adminGrader bool
}

type Option func(*options)

// WithAdminGrader marks the viewer as a TA grading the group. Stages never
// close for admin graders.
func WithAdminGrader(adminGrader bool) Option {
	return func(o *options) {
		o.adminGrader = adminGrader
	}
}

// New wraps the stage of activity with the behaviour of its category.
func New(activity entity.Activity, s entity.Stage, opts ...Option) (Stage, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	b := base{stage: s, activity: activity, adminGrader: o.adminGrader}
	switch s.Category {
	case entity.CategoryBasicStage:
		return &BasicStage{base: b}, nil
	case entity.CategorySubmissionStage:
		return &SubmissionStage{base: b}, nil
	case entity.CategoryPeerReviewStage:
		return &PeerReviewStage{reviewBase: reviewBase{base: b}}, nil
	case entity.CategoryGroupReviewStage:
		return &GroupReviewStage{reviewBase: reviewBase{base: b}}, nil
	case entity.CategoryPeerAssessmentStage:
		return &PeerAssessmentStage{assessmentBase: assessmentBase{base: b}}, nil
	case entity.CategoryGroupAssessmentStage:
		return &GroupAssessmentStage{assessmentBase: assessmentBase{base: b}}, nil
	default:
		return nil, domain.NewError(errcodes.StageMisconfigured,
			fmt.Sprintf("stage %s has unknown category %q", s.ID, s.Category))
	}
}

// Lookup finds stageID in activity and wraps it.
func Lookup(activity entity.Activity, stageID string, opts ...Option) (Stage, error) {
	s, ok := activity.Stage(stageID)
	if !ok {
		return nil, domain.NewError(errcodes.NotFound,
			fmt.Sprintf("stage %s not found in activity %s", stageID, activity.ID))
	}
	return New(activity, s, opts...)
}

type base struct {
	stage       entity.Stage
	activity    entity.Activity
	adminGrader bool
}

func (b *base) ID() string {
	return b.stage.ID
}

func (b *base) DisplayName() string {
	if b.stage.DisplayName == "" {
		return entity.DefaultStageName
	}
	return b.stage.DisplayName
}

func (b *base) Entity() entity.Stage {
	return b.stage
}

func (b *base) Activity() entity.Activity {
	return b.activity
}

func (b *base) ContentTemplate() string {
	return ""
}

func (b *base) AllowedNestedBlocks() []NestedBlock {
	return []NestedBlock{
		{Category: entity.CategoryHTML, Caption: "HTML"},
		{Category: entity.CategoryResource, Caption: "Resource"},
	}
}

func (b *base) Components() []entity.Component {
	return b.stage.Components
}

func (b *base) Resources() []entity.Component {
	return b.componentsOf(entity.CategoryResource)
}

func (b *base) GradingCriteria() []entity.Component {
	var criteria []entity.Component
	for _, r := range b.Resources() {
		if r.GradingCriteria {
			criteria = append(criteria, r)
		}
	}
	return criteria
}

func (b *base) IsOpen(now time.Time) bool {
	return b.stage.OpenDate == nil || !b.stage.OpenDate.After(now)
}

func (b *base) IsClosed(now time.Time) bool {
	// A TA grading the group can act on the stage after it closed for students.
	if b.adminGrader {
		return false
	}
	return b.stage.CloseDate != nil && b.stage.CloseDate.Before(now)
}

func (b *base) FormattedOpenDate() string {
	return formatDate(b.stage.OpenDate)
}

func (b *base) FormattedCloseDate() string {
	return formatDate(b.stage.CloseDate)
}

func (b *base) Validate() []entity.ValidationMessage {
	return nil
}

func (b *base) componentsOf(category entity.ComponentCategory) []entity.Component {
	var components []entity.Component
	for _, c := range b.stage.Components {
		if c.Category == category {
			components = append(components, c)
		}
	}
	return components
}

func (b *base) missing(what, kind string) entity.ValidationMessage {
	return entity.ValidationMessage{
		Type: entity.ValidationError,
		Text: fmt.Sprintf("%s are not specified for %s '%s'", what, kind, b.DisplayName()),
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateFormat)
}
