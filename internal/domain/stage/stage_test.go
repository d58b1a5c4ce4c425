package stage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"group_project_service/internal/domain"
	"group_project_service/internal/domain/entity"
	"group_project_service/pkg/errcodes"
)

func ptr(t time.Time) *time.Time {
	return &t
}

func newStage(t *testing.T, s entity.Stage, opts ...Option) Stage {
	t.Helper()
	st, err := New(entity.Activity{ID: "activity1", Stages: []entity.Stage{s}}, s, opts...)
	require.NoError(t, err)
	return st
}

func TestNew_Kinds(t *testing.T) {
	tests := []struct {
		category  entity.StageCategory
		kind      string
		typ       string
		stageType entity.StageType
	}{
		{entity.CategoryBasicStage, "BasicStage", "Text", entity.StageTypeNormal},
		{entity.CategorySubmissionStage, "SubmissionStage", "Task", entity.StageTypeUpload},
		{entity.CategoryPeerReviewStage, "PeerReviewStage", "Grade", entity.StageTypePeerReview},
		{entity.CategoryGroupReviewStage, "GroupReviewStage", "Grade", entity.StageTypeGroupReview},
		{entity.CategoryPeerAssessmentStage, "PeerAssessmentStage", "Evaluation", entity.StageTypePeerAssessment},
		{entity.CategoryGroupAssessmentStage, "GroupAssessmentStage", "Evaluation", entity.StageTypeGroupAssessment},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			s := newStage(t, entity.Stage{ID: "s1", Category: tt.category})
			assert.Equal(t, tt.kind, s.Kind())
			assert.Equal(t, tt.typ, s.Type())
			assert.Equal(t, tt.stageType, s.StageType())
		})
	}
}

func TestNew_UnknownCategory(t *testing.T) {
	_, err := New(entity.Activity{}, entity.Stage{ID: "s1", Category: "bogus"})
	assert.Equal(t, errcodes.StageMisconfigured, domain.CodeOf(err))
}

func TestLookup_NotFound(t *testing.T) {
	_, err := Lookup(entity.Activity{ID: "a"}, "missing")
	assert.Equal(t, errcodes.NotFound, domain.CodeOf(err))
}

func TestStage_AllowedNestedBlocks(t *testing.T) {
	categories := func(blocks []NestedBlock) []entity.ComponentCategory {
		var out []entity.ComponentCategory
		for _, b := range blocks {
			out = append(out, b.Category)
		}
		return out
	}

	tests := []struct {
		category entity.StageCategory
		want     []entity.ComponentCategory
	}{
		{entity.CategoryBasicStage, []entity.ComponentCategory{entity.CategoryHTML, entity.CategoryResource}},
		{entity.CategorySubmissionStage, []entity.ComponentCategory{
			entity.CategoryHTML, entity.CategoryResource, entity.CategorySubmission,
		}},
		{entity.CategoryPeerReviewStage, []entity.ComponentCategory{
			entity.CategoryHTML, entity.CategoryResource, entity.CategoryReviewQuestion, entity.CategoryPeerSelector,
		}},
		{entity.CategoryGroupReviewStage, []entity.ComponentCategory{
			entity.CategoryHTML, entity.CategoryResource, entity.CategoryReviewQuestion,
		}},
		{entity.CategoryPeerAssessmentStage, []entity.ComponentCategory{
			entity.CategoryHTML, entity.CategoryResource, entity.CategoryReviewAssessment,
		}},
		{entity.CategoryGroupAssessmentStage, []entity.ComponentCategory{
			entity.CategoryHTML, entity.CategoryResource, entity.CategoryReviewAssessment,
		}},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			s := newStage(t, entity.Stage{ID: "s1", Category: tt.category})
			assert.Equal(t, tt.want, categories(s.AllowedNestedBlocks()))
		})
	}
}

func TestStage_IsOpenIsClosed(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	tests := []struct {
		name        string
		open, close *time.Time
		adminGrader bool
		wantOpen    bool
		wantClosed  bool
	}{
		{name: "no dates", wantOpen: true},
		{name: "opens later", open: ptr(after)},
		{name: "opened", open: ptr(before), wantOpen: true},
		{name: "opens now", open: ptr(now), wantOpen: true},
		{name: "closed", open: ptr(before), close: ptr(before), wantOpen: true, wantClosed: true},
		{name: "closes now", close: ptr(now), wantOpen: true},
		{name: "closes later", close: ptr(after), wantOpen: true},
		{name: "closed but admin grader", close: ptr(before), adminGrader: true, wantOpen: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStage(t, entity.Stage{
				ID:        "s1",
				Category:  entity.CategoryBasicStage,
				OpenDate:  tt.open,
				CloseDate: tt.close,
			}, WithAdminGrader(tt.adminGrader))
			assert.Equal(t, tt.wantOpen, s.IsOpen(now))
			assert.Equal(t, tt.wantClosed, s.IsClosed(now))
		})
	}
}

func TestStage_FormattedDates(t *testing.T) {
	s := newStage(t, entity.Stage{
		ID:       "s1",
		Category: entity.CategoryBasicStage,
		OpenDate: ptr(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)),
	})
	assert.Equal(t, "Mar 05", s.FormattedOpenDate())
	assert.Empty(t, s.FormattedCloseDate())
}

func TestStage_DisplayNameDefault(t *testing.T) {
	s := newStage(t, entity.Stage{ID: "s1", Category: entity.CategoryBasicStage})
	assert.Equal(t, entity.DefaultStageName, s.DisplayName())
}

func TestStage_ResourcesAndGradingCriteria(t *testing.T) {
	s := newStage(t, entity.Stage{ID: "s1", Category: entity.CategoryBasicStage, Components: []entity.Component{
		{ID: "r1", Category: entity.CategoryResource},
		{ID: "h1", Category: entity.CategoryHTML},
		{ID: "r2", Category: entity.CategoryResource, GradingCriteria: true},
	}})

	assert.Len(t, s.Resources(), 2)
	require.Len(t, s.GradingCriteria(), 1)
	assert.Equal(t, "r2", s.GradingCriteria()[0].ID)
}

func TestSubmissionStage(t *testing.T) {
	now := time.Now()
	s := newStage(t, entity.Stage{ID: "s1", Category: entity.CategorySubmissionStage, Components: []entity.Component{
		{ID: "sub1", Category: entity.CategorySubmission, UploadID: "doc1"},
		{ID: "sub2", Category: entity.CategorySubmission},
	}})

	uploader, ok := s.(Uploader)
	require.True(t, ok)
	assert.True(t, uploader.HasSubmissions())
	assert.True(t, uploader.IsUploadAvailable(now))
	assert.False(t, uploader.HasAllSubmissions([]string{"doc1"}))
	assert.True(t, uploader.HasAllSubmissions([]string{"sub2", "doc1", "other"}))
	assert.Empty(t, s.Validate())
}

func TestSubmissionStage_UploadUnavailable(t *testing.T) {
	now := time.Now()
	closed := now.Add(-time.Minute)

	empty := newStage(t, entity.Stage{ID: "s1", Category: entity.CategorySubmissionStage}).(Uploader)
	assert.False(t, empty.IsUploadAvailable(now))

	late := newStage(t, entity.Stage{
		ID:         "s2",
		Category:   entity.CategorySubmissionStage,
		CloseDate:  &closed,
		Components: []entity.Component{{ID: "sub1", Category: entity.CategorySubmission}},
	}).(Uploader)
	assert.False(t, late.IsUploadAvailable(now))
}

func TestReviewStage_GradeQuestions(t *testing.T) {
	s := newStage(t, entity.Stage{ID: "s1", Category: entity.CategoryGroupReviewStage, Components: []entity.Component{
		{ID: "q1", Category: entity.CategoryReviewQuestion, Grade: true},
		{ID: "q2", Category: entity.CategoryReviewQuestion},
		{ID: "q3", Category: entity.CategoryReviewQuestion, Grade: true},
	}})

	reviewer, ok := s.(Reviewer)
	require.True(t, ok)
	assert.Len(t, reviewer.Questions(), 3)
	assert.Equal(t, []string{"q1", "q3"}, ids(reviewer.GradeQuestions()))
}

func TestStage_Validate(t *testing.T) {
	tests := []struct {
		category entity.StageCategory
		want     string
	}{
		{entity.CategoryBasicStage, ""},
		{entity.CategorySubmissionStage, "Submissions are not specified for SubmissionStage 'Stage title'"},
		{entity.CategoryPeerReviewStage, "Questions are not specified for PeerReviewStage 'Stage title'"},
		{entity.CategoryGroupReviewStage, "Questions are not specified for GroupReviewStage 'Stage title'"},
		{entity.CategoryPeerAssessmentStage, "Assessments are not specified for PeerAssessmentStage 'Stage title'"},
		{entity.CategoryGroupAssessmentStage, "Assessments are not specified for GroupAssessmentStage 'Stage title'"},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			s := newStage(t, entity.Stage{ID: "s1", Category: tt.category, DisplayName: "Stage title"})
			messages := s.Validate()
			if tt.want == "" {
				assert.Empty(t, messages)
				return
			}
			require.Len(t, messages, 1)
			assert.Equal(t, entity.ValidationError, messages[0].Type)
			assert.Equal(t, tt.want, messages[0].Text)
		})
	}
}

func TestComputeState(t *testing.T) {
	tests := []struct {
		name      string
		users     []int
		completed []int
		want      entity.StageState
	}{
		{name: "nobody in group", completed: []int{1}, want: entity.StageNotStarted},
		{name: "nobody completed", users: []int{1, 2}, want: entity.StageNotStarted},
		{name: "all completed", users: []int{1, 2}, completed: []int{1, 2}, want: entity.StageCompleted},
		{name: "all completed plus others", users: []int{1, 2}, completed: []int{3, 2, 1}, want: entity.StageCompleted},
		{name: "some completed", users: []int{1, 2, 3}, completed: []int{2}, want: entity.StageIncomplete},
		{name: "only other users completed", users: []int{1, 2}, completed: []int{3, 4}, want: entity.StageNotStarted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeState(tt.users, tt.completed))
		})
	}
}

func ids(components []entity.Component) []string {
	out := make([]string, 0, len(components))
	for _, c := range components {
		out = append(out, c.ID)
	}
	return out
}
