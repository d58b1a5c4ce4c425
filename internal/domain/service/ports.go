package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"group_project_service/internal/domain"
	"group_project_service/internal/domain/entity"
	"group_project_service/internal/infrastructure/projectapi"
	"group_project_service/pkg/errcodes"
)

var nowFunc = time.Now //nolint:gochecknoglobals

type ActivityRepository interface {
	Get(ctx context.Context, id string) (entity.Activity, error)
	// List returns the activities with the given ids, or every activity when ids is empty.
	List(ctx context.Context, ids []string) ([]entity.Activity, error)
	Save(ctx context.Context, activity entity.Activity) error
}

// FileStorage keeps uploaded documents and returns the URL they are served from.
type FileStorage interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

// GradeScheduler queues grade calculation for a reviewed workgroup.
type GradeScheduler interface {
	ScheduleGrade(ctx context.Context, job GradeJob) error
}

type GradeJob struct {
	ActivityID string `json:"activity_id"`
	GroupID    int    `json:"group_id"`
}

type workgroupAPI interface {
	GetUserWorkgroupForCourse(ctx context.Context, userID int, courseID string) (*projectapi.WorkgroupDetails, error)
	GetWorkgroupByID(ctx context.Context, groupID int) (projectapi.WorkgroupDetails, error)
}

type completionAPI interface {
	MarkAsComplete(ctx context.Context, courseID, contentID string, userID int, stageID string) error
	GetStageState(ctx context.Context, courseID, activityID string, userID int, stageID string) ([]int, []int, error)
}

type reviewAPI interface {
	GetWorkgroupsToReview(ctx context.Context, userID int, courseID, xblockID string) ([]projectapi.WorkgroupDetails, error)
	GetWorkgroupReviewers(ctx context.Context, groupID int, contentID string) ([]projectapi.UserSummary, error)
	GetPeerReviewItems(ctx context.Context, reviewerID, peerID, groupID int, contentID string) ([]projectapi.ReviewItem, error)
	GetUserPeerReviewItems(ctx context.Context, userID, groupID int, contentID string) ([]projectapi.ReviewItem, error)
	GetWorkgroupReviewItems(ctx context.Context, reviewerID, groupID int, contentID string) ([]projectapi.ReviewItem, error)
	GetWorkgroupReviewItemsForGroup(ctx context.Context, groupID int, contentID string) ([]projectapi.ReviewItem, error)
	SubmitPeerReviewItems(ctx context.Context, reviewerID, peerID, groupID int, contentID string, answers map[string]string) error
	SubmitWorkgroupReviewItems(ctx context.Context, reviewerID, groupID int, contentID string, answers map[string]string) error
}

type gradeAPI interface {
	GetWorkgroupReviewers(ctx context.Context, groupID int, contentID string) ([]projectapi.UserSummary, error)
	GetWorkgroupReviewItemsForGroup(ctx context.Context, groupID int, contentID string) ([]projectapi.ReviewItem, error)
	SetGroupGrade(ctx context.Context, groupID int, courseID, activityID string, grade, maxGrade float64) error
}

type submissionAPI interface {
	CreateSubmission(ctx context.Context, submission projectapi.Submission) (projectapi.Submission, error)
	GetLatestWorkgroupSubmissions(ctx context.Context, groupID int) (map[string]projectapi.Submission, error)
}

// ProjectAPI is everything the services need from the project API.
type ProjectAPI interface {
	workgroupAPI
	completionAPI
	reviewAPI
	gradeAPI
	submissionAPI
}

// Viewer is the user a request is made for.
type Viewer struct {
	UserID      int
	AdminGrader bool
	// ReviewTarget is the peer or workgroup a review stage view shows the
	// viewer's answers about. Zero picks the first one.
	ReviewTarget int
}

// upstream wraps errors of the project API. AppErrors pass through untouched.
func upstream(err error, message string) error {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return domain.WrapError(err, errcodes.UpstreamError, message)
}

func getActivity(ctx context.Context, repo ActivityRepository, id string) (entity.Activity, error) {
	activity, err := repo.Get(ctx, id)
	if err != nil {
		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			return entity.Activity{}, err
		}
		return entity.Activity{}, domain.WrapError(err, errcodes.InternalServerError,
			fmt.Sprintf("failed to load activity %s", id))
	}
	return activity, nil
}

func toMember(u projectapi.UserSummary) entity.Member {
	return entity.Member{ID: u.ID, Username: u.Username, Email: u.Email, FullName: u.FullName}
}

func toMembers(users []projectapi.UserSummary) []entity.Member {
	members := make([]entity.Member, 0, len(users))
	for _, u := range users {
		members = append(members, toMember(u))
	}
	return members
}

func toWorkgroup(w projectapi.WorkgroupDetails) entity.Workgroup {
	return entity.Workgroup{ID: w.ID, Name: w.Name, Members: toMembers(w.Users)}
}

func toUpload(s projectapi.Submission) entity.Upload {
	return entity.Upload{
		ID:         s.ID,
		DocumentID: s.DocumentID,
		URL:        s.DocumentURL,
		Filename:   s.DocumentFilename,
		MimeType:   s.DocumentMimeType,
		UploadedBy: s.User,
		Modified:   s.Modified,
	}
}

// answersByQuestion keeps the answer of every review item, keyed by question.
func answersByQuestion(items []projectapi.ReviewItem) map[string]string {
	answers := make(map[string]string, len(items))
	for _, item := range items {
		answers[item.Question] = item.Answer
	}
	return answers
}

func receivedByQuestion(items []projectapi.ReviewItem) map[string][]string {
	received := make(map[string][]string)
	for _, item := range items {
		received[item.Question] = append(received[item.Question], item.Answer)
	}
	return received
}
