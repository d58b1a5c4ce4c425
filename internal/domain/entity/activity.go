package entity

// Activity is one group project activity: an ordered list of stages that a
// workgroup goes through. Its ID doubles as the content id known to the project API.
type Activity struct {
	ID          string  `json:"id" yaml:"id"`
	CourseID    string  `json:"course_id" yaml:"course_id"`
	ProjectID   int     `json:"project_id" yaml:"project_id"`
	DisplayName string  `json:"display_name" yaml:"display_name"`
	Weight      float64 `json:"weight" yaml:"weight"`

	GroupReviewsRequiredCount int `json:"group_reviews_required_count" yaml:"group_reviews_required_count"`
	UserReviewsRequiredCount  int `json:"user_reviews_required_count" yaml:"user_reviews_required_count"`

	Stages []Stage `json:"stages" yaml:"stages"`
}

func (a Activity) Stage(id string) (Stage, bool) {
	for _, s := range a.Stages {
		if s.ID == id {
			return s, true
		}
	}
	return Stage{}, false
}

// StagesByCategory returns the activity stages of the given category in order.
func (a Activity) StagesByCategory(category StageCategory) []Stage {
	var stages []Stage
	for _, s := range a.Stages {
		if s.Category == category {
			stages = append(stages, s)
		}
	}
	return stages
}
