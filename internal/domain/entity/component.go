package entity

type ComponentCategory string

const (
	CategoryHTML             ComponentCategory = "html"
	CategoryResource         ComponentCategory = "gp-v2-resource"
	CategorySubmission       ComponentCategory = "gp-v2-submission"
	CategoryPeerSelector     ComponentCategory = "gp-v2-peer-selector"
	CategoryReviewQuestion   ComponentCategory = "gp-v2-review-question"
	CategoryReviewAssessment ComponentCategory = "gp-v2-peer-assessment"
)

type ResourceType string

const (
	ResourceNormal      ResourceType = "normal"
	ResourceOoyalaVideo ResourceType = "ooyala"
)

// Component is a child block of a stage. Which fields are meaningful depends on Category.
type Component struct {
	ID          string            `json:"id" yaml:"id"`
	Category    ComponentCategory `json:"category" yaml:"category"`
	DisplayName string            `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`

	// html
	Content string `json:"content,omitempty" yaml:"content,omitempty"`

	// resource
	ResourceType     ResourceType `json:"resource_type,omitempty" yaml:"resource_type,omitempty"`
	ResourceLocation string       `json:"resource_location,omitempty" yaml:"resource_location,omitempty"`
	GradingCriteria  bool         `json:"grading_criteria,omitempty" yaml:"grading_criteria,omitempty"`

	// submission
	UploadID string `json:"upload_id,omitempty" yaml:"upload_id,omitempty"`

	// review question and review assessment
	QuestionID string   `json:"question_id,omitempty" yaml:"question_id,omitempty"`
	Grade      bool     `json:"grade,omitempty" yaml:"grade,omitempty"`
	Required   bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Choices    []string `json:"choices,omitempty" yaml:"choices,omitempty"`
	ShowAll    bool     `json:"show_all,omitempty" yaml:"show_all,omitempty"`
}

// DocumentID is the id a submission upload is stored under in the project API.
func (c Component) DocumentID() string {
	if c.UploadID != "" {
		return c.UploadID
	}
	return c.ID
}
