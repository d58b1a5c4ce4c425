package entity

import "time"

type StageCategory string

const (
	CategoryBasicStage           StageCategory = "group-project-v2-stage-basic"
	CategorySubmissionStage      StageCategory = "group-project-v2-stage-submission"
	CategoryPeerReviewStage      StageCategory = "group-project-v2-stage-peer-review"
	CategoryGroupReviewStage     StageCategory = "group-project-v2-stage-group-review"
	CategoryPeerAssessmentStage  StageCategory = "group-project-v2-stage-peer-assessment"
	CategoryGroupAssessmentStage StageCategory = "group-project-v2-stage-group-assessment"
)

type StageType string

const (
	StageTypeNormal          StageType = "normal"
	StageTypeUpload          StageType = "upload"
	StageTypePeerReview      StageType = "peer_review"
	StageTypePeerAssessment  StageType = "peer_assessment"
	StageTypeGroupReview     StageType = "group_review"
	StageTypeGroupAssessment StageType = "group_assessment"
)

type StageState string

const (
	StageNotStarted StageState = "not_started"
	StageIncomplete StageState = "incomplete"
	StageCompleted  StageState = "completed"
)

const DefaultStageName = "Group Project V2 Stage"

type Stage struct {
	ID          string        `json:"id" yaml:"id"`
	Category    StageCategory `json:"category" yaml:"category"`
	DisplayName string        `json:"display_name" yaml:"display_name"`
	OpenDate    *time.Time    `json:"open_date,omitempty" yaml:"open_date,omitempty"`
	CloseDate   *time.Time    `json:"close_date,omitempty" yaml:"close_date,omitempty"`
	Components  []Component   `json:"components" yaml:"components"`
}

type ValidationMessageType string

const (
	ValidationError   ValidationMessageType = "error"
	ValidationWarning ValidationMessageType = "warning"
)

type ValidationMessage struct {
	Type ValidationMessageType `json:"type"`
	Text string                `json:"text"`
}
