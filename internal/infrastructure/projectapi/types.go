package projectapi

import "time"

const (
	WorkgroupAPI       = "workgroups"
	PeerReviewAPI      = "peer_reviews"
	WorkgroupReviewAPI = "workgroup_reviews"
	UsersAPI           = "users"
	SubmissionAPI      = "submissions"
	GroupAPI           = "groups"
	CoursesAPI         = "courses"
	ProjectsAPI        = "projects"
	OrganizationsAPI   = "organizations"
)

type page[T any] struct {
	Count    int `json:"count"`
	NumPages int `json:"num_pages"`
	Results  []T `json:"results"`
}

type ProjectDetails struct {
	ID           int        `json:"id"`
	URL          string     `json:"url"`
	Created      *time.Time `json:"created"`
	Modified     *time.Time `json:"modified"`
	CourseID     string     `json:"course_id"`
	ContentID    string     `json:"content_id"`
	Organization *string    `json:"organization"`
	Workgroups   []int      `json:"workgroups"`
}

type UserSummary struct {
	ID       int    `json:"id"`
	URL      string `json:"url,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

type UserDetails struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
	Title     string `json:"title"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

type Organization struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	LogoURL     string `json:"logo_url"`
}

type CourseRole struct {
	UserID int    `json:"id"`
	Role   string `json:"role"`
}

type WorkgroupDetails struct {
	ID          int           `json:"id"`
	URL         string        `json:"url"`
	Name        string        `json:"name"`
	Project     int           `json:"project"`
	Users       []UserSummary `json:"users"`
	Submissions []int         `json:"submissions"`
}

// UserIDs returns the ids of the workgroup members in API order.
func (w WorkgroupDetails) UserIDs() []int {
	ids := make([]int, 0, len(w.Users))
	for _, u := range w.Users {
		ids = append(ids, u.ID)
	}
	return ids
}

type ReviewAssignmentData struct {
	XBlockID       string `json:"xblock_id"`
	AssignmentDate string `json:"assignment_date,omitempty"`
}

type ReviewAssignmentGroup struct {
	ID   int                  `json:"id"`
	URL  string               `json:"url"`
	Name string               `json:"name"`
	Data ReviewAssignmentData `json:"data"`
}

// ReviewItem is a single answer to a review question. Reviewer is the
// reviewer's user id as a string; User is the reviewed peer (peer reviews only).
type ReviewItem struct {
	ID        int    `json:"id,omitempty"`
	Reviewer  string `json:"reviewer"`
	User      int    `json:"user,omitempty"`
	Workgroup int    `json:"workgroup"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	ContentID string `json:"content_id"`
}

type Completion struct {
	ID        int    `json:"id,omitempty"`
	UserID    int    `json:"user_id"`
	CourseID  string `json:"course_id"`
	ContentID string `json:"content_id"`
	Stage     string `json:"stage,omitempty"`
}

type Grade struct {
	CourseID  string  `json:"course_id"`
	ContentID string  `json:"content_id"`
	Grade     float64 `json:"grade"`
	MaxGrade  float64 `json:"max_grade"`
}

type Submission struct {
	ID               int        `json:"id,omitempty"`
	User             int        `json:"user"`
	Workgroup        int        `json:"workgroup"`
	Project          int        `json:"project"`
	DocumentID       string     `json:"document_id"`
	DocumentURL      string     `json:"document_url"`
	DocumentFilename string     `json:"document_filename"`
	DocumentMimeType string     `json:"document_mime_type"`
	Modified         *time.Time `json:"modified,omitempty"`
}
