package stage

import (
	"time"

	"github.com/samber/lo"

	"group_project_service/internal/domain/entity"
)

type BasicStage struct {
	base
}

func (s *BasicStage) Type() string                { return "Text" }
func (s *BasicStage) Kind() string                { return "BasicStage" }
func (s *BasicStage) StageType() entity.StageType { return entity.StageTypeNormal }

type SubmissionStage struct {
	base
}

func (s *SubmissionStage) Type() string                { return "Task" }
func (s *SubmissionStage) Kind() string                { return "SubmissionStage" }
func (s *SubmissionStage) StageType() entity.StageType { return entity.StageTypeUpload }

func (s *SubmissionStage) AllowedNestedBlocks() []NestedBlock {
	return append(s.base.AllowedNestedBlocks(),
		NestedBlock{Category: entity.CategorySubmission, Caption: "Submission"})
}

func (s *SubmissionStage) Submissions() []entity.Component {
	return s.componentsOf(entity.CategorySubmission)
}

func (s *SubmissionStage) HasSubmissions() bool {
	return len(s.Submissions()) > 0
}

func (s *SubmissionStage) IsUploadAvailable(now time.Time) bool {
	return s.HasSubmissions() && s.IsOpen(now) && !s.IsClosed(now)
}

// HasAllSubmissions reports whether every submission component has a
// document among uploaded.
func (s *SubmissionStage) HasAllSubmissions(uploaded []string) bool {
	required := lo.Map(s.Submissions(), func(c entity.Component, _ int) string {
		return c.DocumentID()
	})
	return lo.Every(uploaded, required)
}

func (s *SubmissionStage) Validate() []entity.ValidationMessage {
	messages := s.base.Validate()
	if !s.HasSubmissions() {
		messages = append(messages, s.missing("Submissions", s.Kind()))
	}
	return messages
}

type reviewBase struct {
	base
}

func (s *reviewBase) Type() string { return "Grade" }

func (s *reviewBase) AllowedNestedBlocks() []NestedBlock {
	return append(s.base.AllowedNestedBlocks(),
		NestedBlock{Category: entity.CategoryReviewQuestion, Caption: "Review Question"})
}

func (s *reviewBase) Questions() []entity.Component {
	return s.componentsOf(entity.CategoryReviewQuestion)
}

func (s *reviewBase) GradeQuestions() []entity.Component {
	return lo.Filter(s.Questions(), func(q entity.Component, _ int) bool {
		return q.Grade
	})
}

func (s *reviewBase) validate(kind string) []entity.ValidationMessage {
	messages := s.base.Validate()
	if len(s.Questions()) == 0 {
		messages = append(messages, s.missing("Questions", kind))
	}
	return messages
}

type PeerReviewStage struct {
	reviewBase
}

func (s *PeerReviewStage) Kind() string                { return "PeerReviewStage" }
func (s *PeerReviewStage) StageType() entity.StageType { return entity.StageTypePeerReview }
func (s *PeerReviewStage) ContentTemplate() string     { return "stages/peer_review.html" }

func (s *PeerReviewStage) AllowedNestedBlocks() []NestedBlock {
	return append(s.reviewBase.AllowedNestedBlocks(),
		NestedBlock{Category: entity.CategoryPeerSelector, Caption: "Teammate selector"})
}

func (s *PeerReviewStage) Validate() []entity.ValidationMessage {
	return s.validate(s.Kind())
}

type GroupReviewStage struct {
	reviewBase
}

func (s *GroupReviewStage) Kind() string                { return "GroupReviewStage" }
func (s *GroupReviewStage) StageType() entity.StageType { return entity.StageTypeGroupReview }
func (s *GroupReviewStage) ContentTemplate() string     { return "stages/group_review.html" }

func (s *GroupReviewStage) Validate() []entity.ValidationMessage {
	return s.validate(s.Kind())
}

type assessmentBase struct {
	base
}

func (s *assessmentBase) Type() string { return "Evaluation" }

func (s *assessmentBase) AllowedNestedBlocks() []NestedBlock {
	return append(s.base.AllowedNestedBlocks(),
		NestedBlock{Category: entity.CategoryReviewAssessment, Caption: "Review Question"})
}

func (s *assessmentBase) Assessments() []entity.Component {
	return s.componentsOf(entity.CategoryReviewAssessment)
}

func (s *assessmentBase) validate(kind string) []entity.ValidationMessage {
	messages := s.base.Validate()
	if len(s.Assessments()) == 0 {
		messages = append(messages, s.missing("Assessments", kind))
	}
	return messages
}

type PeerAssessmentStage struct {
	assessmentBase
}

func (s *PeerAssessmentStage) Kind() string                { return "PeerAssessmentStage" }
func (s *PeerAssessmentStage) StageType() entity.StageType { return entity.StageTypePeerAssessment }
func (s *PeerAssessmentStage) ContentTemplate() string     { return "stages/peer_assessment.html" }

func (s *PeerAssessmentStage) Validate() []entity.ValidationMessage {
	return s.validate(s.Kind())
}

type GroupAssessmentStage struct {
	assessmentBase
}

func (s *GroupAssessmentStage) Kind() string                { return "GroupAssessmentStage" }
func (s *GroupAssessmentStage) StageType() entity.StageType { return entity.StageTypeGroupAssessment }
func (s *GroupAssessmentStage) ContentTemplate() string     { return "stages/group_assessment.html" }

func (s *GroupAssessmentStage) Validate() []entity.ValidationMessage {
	return s.validate(s.Kind())
}
