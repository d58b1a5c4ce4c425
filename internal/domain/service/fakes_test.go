package service

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"group_project_service/internal/domain"
	"group_project_service/internal/domain/entity"
	"group_project_service/internal/infrastructure/projectapi"
	"group_project_service/pkg/errcodes"
)

func withNow(t *testing.T, now time.Time) {
	t.Helper()
	orig := nowFunc
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = orig })
}

type memRepo struct {
	mu         sync.Mutex
	activities map[string]entity.Activity
	saveErr    error
}

func newMemRepo(activities ...entity.Activity) *memRepo {
	r := &memRepo{activities: map[string]entity.Activity{}}
	for _, a := range activities {
		r.activities[a.ID] = a
	}
	return r
}

func (r *memRepo) Get(_ context.Context, id string) (entity.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.activities[id]
	if !ok {
		return entity.Activity{}, domain.NewError(errcodes.NotFound, "activity not found")
	}
	return a, nil
}

func (r *memRepo) List(_ context.Context, ids []string) ([]entity.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Activity
	for _, id := range ids {
		if a, ok := r.activities[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memRepo) Save(_ context.Context, a entity.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.activities[a.ID] = a
	return nil
}

type completion struct {
	UserID  int
	StageID string
}

type submittedReview struct {
	Reviewer int
	Target   int
	Answers  map[string]string
}

type grade struct {
	GroupID int
	Grade   float64
	Max     float64
}

// fakeAPI is an in-memory project API.
type fakeAPI struct {
	mu sync.Mutex

	workgroups map[int]projectapi.WorkgroupDetails
	userGroup  map[int]int
	toReview   map[int][]int
	reviewers  map[int][]int

	peerItems  []projectapi.ReviewItem
	groupItems []projectapi.ReviewItem

	completed   []completion
	completeErr error
	stageState  [2][]int

	submissions []projectapi.Submission
	grades      []grade

	peerSubmits  []submittedReview
	groupSubmits []submittedReview
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		workgroups: map[int]projectapi.WorkgroupDetails{},
		userGroup:  map[int]int{},
		toReview:   map[int][]int{},
		reviewers:  map[int][]int{},
	}
}

func (f *fakeAPI) addGroup(id int, name string, userIDs ...int) {
	g := projectapi.WorkgroupDetails{ID: id, Name: name}
	for _, u := range userIDs {
		g.Users = append(g.Users, projectapi.UserSummary{ID: u, Username: "user" + itoa(u)})
		f.userGroup[u] = id
	}
	f.workgroups[id] = g
}

func (f *fakeAPI) GetUserWorkgroupForCourse(_ context.Context, userID int, _ string) (*projectapi.WorkgroupDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.userGroup[userID]
	if !ok {
		return nil, nil
	}
	g := f.workgroups[id]
	return &g, nil
}

func (f *fakeAPI) GetWorkgroupByID(_ context.Context, groupID int) (projectapi.WorkgroupDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.workgroups[groupID]
	if !ok {
		return g, &projectapi.APIError{Code: http.StatusNotFound}
	}
	return g, nil
}

func (f *fakeAPI) MarkAsComplete(_ context.Context, _, _ string, userID int, stageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completeErr != nil {
		return f.completeErr
	}
	f.completed = append(f.completed, completion{UserID: userID, StageID: stageID})
	return nil
}

func (f *fakeAPI) GetStageState(context.Context, string, string, int, string) ([]int, []int, error) {
	return f.stageState[0], f.stageState[1], nil
}

func (f *fakeAPI) GetWorkgroupsToReview(_ context.Context, userID int, _, _ string) ([]projectapi.WorkgroupDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []projectapi.WorkgroupDetails
	for _, id := range f.toReview[userID] {
		out = append(out, f.workgroups[id])
	}
	return out, nil
}

func (f *fakeAPI) GetWorkgroupReviewers(_ context.Context, groupID int, _ string) ([]projectapi.UserSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []projectapi.UserSummary
	for _, id := range f.reviewers[groupID] {
		out = append(out, projectapi.UserSummary{ID: id})
	}
	return out, nil
}

func (f *fakeAPI) GetPeerReviewItems(_ context.Context, reviewerID, peerID, _ int, _ string) ([]projectapi.ReviewItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return projectapi.FilterPeerReviewItems(f.peerItems, reviewerID, peerID), nil
}

func (f *fakeAPI) GetUserPeerReviewItems(_ context.Context, userID, _ int, _ string) ([]projectapi.ReviewItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return projectapi.FilterUserPeerReviewItems(f.peerItems, userID), nil
}

func (f *fakeAPI) GetWorkgroupReviewItems(_ context.Context, reviewerID, groupID int, contentID string) ([]projectapi.ReviewItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []projectapi.ReviewItem
	for _, item := range f.groupItems {
		if item.Workgroup == groupID {
			items = append(items, item)
		}
	}
	return projectapi.FilterWorkgroupReviewItems(items, reviewerID, contentID), nil
}

func (f *fakeAPI) GetWorkgroupReviewItemsForGroup(_ context.Context, groupID int, _ string) ([]projectapi.ReviewItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []projectapi.ReviewItem
	for _, item := range f.groupItems {
		if item.Workgroup == groupID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (f *fakeAPI) SubmitPeerReviewItems(_ context.Context, reviewerID, peerID, groupID int, contentID string, answers map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.peerSubmits = append(f.peerSubmits, submittedReview{Reviewer: reviewerID, Target: peerID, Answers: answers})
	for q, a := range answers {
		f.peerItems = append(f.peerItems, projectapi.ReviewItem{
			Reviewer: itoa(reviewerID), User: peerID, Workgroup: groupID, Question: q, Answer: a, ContentID: contentID,
		})
	}
	return nil
}

func (f *fakeAPI) SubmitWorkgroupReviewItems(_ context.Context, reviewerID, groupID int, contentID string, answers map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groupSubmits = append(f.groupSubmits, submittedReview{Reviewer: reviewerID, Target: groupID, Answers: answers})
	for q, a := range answers {
		f.groupItems = append(f.groupItems, projectapi.ReviewItem{
			Reviewer: itoa(reviewerID), Workgroup: groupID, Question: q, Answer: a, ContentID: contentID,
		})
	}
	return nil
}

func (f *fakeAPI) SetGroupGrade(_ context.Context, groupID int, _, _ string, g, maxGrade float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.grades = append(f.grades, grade{GroupID: groupID, Grade: g, Max: maxGrade})
	return nil
}

func (f *fakeAPI) CreateSubmission(_ context.Context, s projectapi.Submission) (projectapi.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = len(f.submissions) + 1
	f.submissions = append(f.submissions, s)
	return s, nil
}

func (f *fakeAPI) GetLatestWorkgroupSubmissions(_ context.Context, groupID int) (map[string]projectapi.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	latest := map[string]projectapi.Submission{}
	for _, s := range f.submissions {
		if s.Workgroup == groupID {
			latest[s.DocumentID] = s
		}
	}
	return latest, nil
}

type memFiles struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (m *memFiles) Put(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = map[string][]byte{}
	}
	m.files[key] = buf.Bytes()
	return "http://files/" + key, nil
}

type recordingScheduler struct {
	mu   sync.Mutex
	jobs []GradeJob
}

func (r *recordingScheduler) ScheduleGrade(_ context.Context, job GradeJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, job)
	return nil
}
