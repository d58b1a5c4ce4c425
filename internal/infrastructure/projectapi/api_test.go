package projectapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reviewItem(reviewer string, question string, peer int) ReviewItem {
	return ReviewItem{Reviewer: reviewer, Question: question, User: peer}
}

func TestClient_GetProjectDetails(t *testing.T) {
	api, c := newFakeAPI(t)
	api.on(http.MethodGet, "/api/projects/7", http.StatusOK,
		`{"id":7,"course_id":"course1","content_id":"xblock:1","workgroups":[1,2]}`)

	project, err := c.GetProjectDetails(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, project.ID)
	assert.Equal(t, "course1", project.CourseID)
	assert.Equal(t, []int{1, 2}, project.Workgroups)
}

func TestClient_GetProjectByContentID(t *testing.T) {
	api, c := newFakeAPI(t)
	api.on(http.MethodGet, "/api/projects/", http.StatusOK, `{"count":1,"num_pages":1,"results":[{"id":3}]}`)

	project, err := c.GetProjectByContentID(context.Background(), "course1", "xblock:1")
	require.NoError(t, err)
	require.NotNil(t, project)
	assert.Equal(t, 3, project.ID)

	calls := api.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "content_id=xblock%3A1&course_id=course1", calls[0].Query)
}

func TestClient_GetProjectByContentID_Missing(t *testing.T) {
	api, c := newFakeAPI(t)
	api.on(http.MethodGet, "/api/projects/", http.StatusOK, `{"count":0,"num_pages":1,"results":[]}`)

	project, err := c.GetProjectByContentID(context.Background(), "course1", "xblock:1")
	require.NoError(t, err)
	assert.Nil(t, project)
}

func TestClient_GetUserWorkgroupForCourse(t *testing.T) {
	api, c := newFakeAPI(t)
	api.on(http.MethodGet, "/api/users/4/workgroups/", http.StatusOK, `{"results":[{"id":9}]}`)
	api.on(http.MethodGet, "/api/workgroups/9/", http.StatusOK,
		`{"id":9,"name":"Group 9","users":[{"id":4},{"id":5}]}`)

	group, err := c.GetUserWorkgroupForCourse(context.Background(), 4, "course1")
	require.NoError(t, err)
	require.NotNil(t, group)
	assert.Equal(t, "Group 9", group.Name)
	assert.Equal(t, []int{4, 5}, group.UserIDs())
}

func TestClient_GetUserWorkgroupForCourse_NoGroup(t *testing.T) {
	api, c := newFakeAPI(t)
	api.on(http.MethodGet, "/api/users/4/workgroups/", http.StatusOK, `{"results":[]}`)

	group, err := c.GetUserWorkgroupForCourse(context.Background(), 4, "course1")
	require.NoError(t, err)
	assert.Nil(t, group)
	assert.Len(t, api.recorded(), 1)
}

func TestClient_GetWorkgroupsToReview(t *testing.T) {
	tests := []struct {
		name          string
		assignments   string
		assignmentIDs []int
	}{
		{name: "no assignments", assignments: `{"groups":[]}`},
		{name: "two assignments", assignments: `{"groups":[{"id":1},{"id":5}]}`, assignmentIDs: []int{1, 5}},
		{name: "three assignments", assignments: `{"groups":[{"id":6},{"id":10},{"id":15}]}`, assignmentIDs: []int{6, 10, 15}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, c := newFakeAPI(t)
			api.on(http.MethodGet, "/api/users/7/groups/", http.StatusOK, tt.assignments)
			for _, id := range tt.assignmentIDs {
				api.on(http.MethodGet, "/api/groups/"+itoa(id)+"/workgroups/", http.StatusOK,
					`{"results":[{"id":`+itoa(id*100)+`}]}`)
			}

			groups, err := c.GetWorkgroupsToReview(context.Background(), 7, "course-15", "xblock:block-1")
			require.NoError(t, err)

			var got []int
			for _, g := range groups {
				got = append(got, g.ID)
			}
			var want []int
			for _, id := range tt.assignmentIDs {
				want = append(want, id*100)
			}
			assert.Equal(t, want, got)

			calls := api.recorded()
			require.Len(t, calls, 1+len(tt.assignmentIDs))
			assert.Equal(t, "course=course-15&data__xblock_id=xblock%3Ablock-1&type=reviewassignment", calls[0].Query)
		})
	}
}

func TestClient_GetWorkgroupReviewers(t *testing.T) {
	tests := []struct {
		name         string
		contentID    string
		assignments  string
		wantPaths    []string
		wantReviewer int
	}{
		{
			name:        "no assignments",
			contentID:   "content1",
			assignments: `[]`,
		},
		{
			name:         "one matching assignment",
			contentID:    "content2",
			assignments:  `[{"data":{"xblock_id":"content2"},"url":"ASSIGN/1/"}]`,
			wantPaths:    []string{"/api/groups/1/users/"},
			wantReviewer: 3,
		},
		{
			name:      "some assignments match",
			contentID: "content3",
			assignments: `[
				{"data":{"xblock_id":"content2"},"url":"ASSIGN/1/"},
				{"data":{"xblock_id":"content3"},"url":"ASSIGN/2/"},
				{"data":{"xblock_id":"content3"},"url":"ASSIGN/3/"}
			]`,
			wantPaths:    []string{"/api/groups/2/users/", "/api/groups/3/users/"},
			wantReviewer: 6,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, c := newFakeAPI(t)
			base := c.address
			api.on(http.MethodGet, "/api/workgroups/1/groups", http.StatusOK,
				replaceAll(tt.assignments, "ASSIGN", base+"/groups"))
			for _, p := range tt.wantPaths {
				api.on(http.MethodGet, p, http.StatusOK, `{"users":[{"id":1},{"id":2},{"id":3}]}`)
			}

			reviewers, err := c.GetWorkgroupReviewers(context.Background(), 1, tt.contentID)
			require.NoError(t, err)
			assert.Len(t, reviewers, tt.wantReviewer)

			calls := api.recorded()
			require.Len(t, calls, 1+len(tt.wantPaths))
			assert.Equal(t, "/api/workgroups/1/groups", calls[0].Path)
			for i, p := range tt.wantPaths {
				assert.Equal(t, p, calls[i+1].Path)
			}
		})
	}
}

func TestFilterPeerReviewItems(t *testing.T) {
	tests := []struct {
		name     string
		reviewer int
		peer     int
		items    []ReviewItem
		want     []ReviewItem
	}{
		{
			name: "one of two", reviewer: 1, peer: 2,
			items: []ReviewItem{reviewItem("1", "qwe", 2), reviewItem("1", "asd", 3)},
			want:  []ReviewItem{reviewItem("1", "qwe", 2)},
		},
		{
			name: "all", reviewer: 5, peer: 3,
			items: []ReviewItem{reviewItem("5", "qwe", 3), reviewItem("5", "asd", 3)},
			want:  []ReviewItem{reviewItem("5", "qwe", 3), reviewItem("5", "asd", 3)},
		},
		{
			name: "other peers", reviewer: 11, peer: 12,
			items: []ReviewItem{reviewItem("11", "qwe", 3), reviewItem("11", "asd", 4)},
		},
		{
			name: "other reviewers", reviewer: 11, peer: 12,
			items: []ReviewItem{reviewItem("15", "qwe", 12), reviewItem("18", "asd", 12)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterPeerReviewItems(tt.items, tt.reviewer, tt.peer)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterUserPeerReviewItems(t *testing.T) {
	tests := []struct {
		name  string
		user  int
		items []ReviewItem
		want  []ReviewItem
	}{
		{
			name: "all about user", user: 1,
			items: []ReviewItem{reviewItem("2", "qwe", 1), reviewItem("5", "asd", 1)},
			want:  []ReviewItem{reviewItem("2", "qwe", 1), reviewItem("5", "asd", 1)},
		},
		{
			name: "none about user", user: 11,
			items: []ReviewItem{reviewItem("16", "qwe", 3), reviewItem("18", "asd", 4)},
		},
		{
			name: "one about user", user: 11,
			items: []ReviewItem{reviewItem("16", "qwe", 3), reviewItem("18", "question1", 11)},
			want:  []ReviewItem{reviewItem("18", "question1", 11)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterUserPeerReviewItems(tt.items, tt.user)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterWorkgroupReviewItems(t *testing.T) {
	item := func(reviewer, question, content string) ReviewItem {
		return ReviewItem{Reviewer: reviewer, Question: question, ContentID: content}
	}

	tests := []struct {
		name     string
		reviewer int
		content  string
		items    []ReviewItem
		want     []ReviewItem
	}{
		{
			name: "matching reviewer and content", reviewer: 1, content: "content_1",
			items: []ReviewItem{item("1", "qwe", "content_1"), item("1", "asd", "content_2")},
			want:  []ReviewItem{item("1", "qwe", "content_1")},
		},
		{
			name: "other reviewer", reviewer: 2, content: "content_1",
			items: []ReviewItem{item("1", "qwe", "content_1"), item("3", "asd", "content_1")},
		},
		{
			name: "several", reviewer: 3, content: "content_2",
			items: []ReviewItem{item("3", "qwe", "content_2"), item("3", "asd", "content_2"), item("1", "zxc", "content_2")},
			want:  []ReviewItem{item("3", "qwe", "content_2"), item("3", "asd", "content_2")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterWorkgroupReviewItems(tt.items, tt.reviewer, tt.content)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_SubmitPeerReviewItems(t *testing.T) {
	api, c := newFakeAPI(t)
	api.on(http.MethodGet, "/api/workgroups/3/peer_reviews/", http.StatusOK, `[
		{"id":10,"reviewer":"1","user":2,"question":"q1","answer":"old","content_id":"c"},
		{"id":11,"reviewer":"9","user":2,"question":"q2","answer":"other","content_id":"c"}
	]`)

	err := c.SubmitPeerReviewItems(context.Background(), 1, 2, 3, "c", map[string]string{"q1": "5", "q2": "4"})
	require.NoError(t, err)

	calls := api.recorded()
	require.Len(t, calls, 3)
	assert.Equal(t, "content_id=c", calls[0].Query)

	assert.Equal(t, http.MethodPut, calls[1].Method)
	assert.Equal(t, "/api/peer_reviews/10/", calls[1].Path)
	assert.JSONEq(t, `{"reviewer":"1","user":2,"workgroup":3,"question":"q1","answer":"5","content_id":"c"}`, calls[1].Body)

	assert.Equal(t, http.MethodPost, calls[2].Method)
	assert.Equal(t, "/api/peer_reviews/", calls[2].Path)
	assert.JSONEq(t, `{"reviewer":"1","user":2,"workgroup":3,"question":"q2","answer":"4","content_id":"c"}`, calls[2].Body)
}

func TestClient_SubmitWorkgroupReviewItems(t *testing.T) {
	api, c := newFakeAPI(t)
	api.on(http.MethodGet, "/api/workgroups/3/workgroup_reviews/", http.StatusOK, `[
		{"id":20,"reviewer":"1","question":"q2","answer":"old","content_id":"c"}
	]`)

	err := c.SubmitWorkgroupReviewItems(context.Background(), 1, 3, "c", map[string]string{"q1": "90", "q2": "80"})
	require.NoError(t, err)

	calls := api.recorded()
	require.Len(t, calls, 3)
	assert.Equal(t, http.MethodPost, calls[1].Method)
	assert.Equal(t, "/api/workgroup_reviews/", calls[1].Path)
	assert.JSONEq(t, `{"reviewer":"1","workgroup":3,"question":"q1","answer":"90","content_id":"c"}`, calls[1].Body)
	assert.Equal(t, http.MethodPut, calls[2].Method)
	assert.Equal(t, "/api/workgroup_reviews/20/", calls[2].Path)
}

func TestClient_DeleteReviewItems(t *testing.T) {
	api, c := newFakeAPI(t)

	require.NoError(t, c.DeletePeerReviewItem(context.Background(), 4))
	require.NoError(t, c.DeleteWorkgroupReviewItem(context.Background(), 5))

	calls := api.recorded()
	require.Len(t, calls, 2)
	assert.Equal(t, recordedCall{Method: http.MethodDelete, Path: "/api/peer_reviews/4/"}, calls[0])
	assert.Equal(t, recordedCall{Method: http.MethodDelete, Path: "/api/workgroup_reviews/5/"}, calls[1])
}

func TestClient_MarkAsComplete(t *testing.T) {
	api, c := newFakeAPI(t)

	err := c.MarkAsComplete(context.Background(), "course1", "activity1", 4, "stage1")
	require.NoError(t, err)

	calls := api.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "/api/courses/course1/completions/", calls[0].Path)
	assert.JSONEq(t, `{"user_id":4,"course_id":"course1","content_id":"activity1","stage":"stage1"}`, calls[0].Body)
}

func TestClient_MarkAsComplete_Conflict(t *testing.T) {
	api, c := newFakeAPI(t)
	api.on(http.MethodPost, "/api/courses/course1/completions/", http.StatusConflict, `{}`)

	err := c.MarkAsComplete(context.Background(), "course1", "activity1", 4, "stage1")
	assert.Equal(t, http.StatusConflict, StatusCode(err))
}

func TestClient_GetStageState(t *testing.T) {
	api, c := newFakeAPI(t)
	api.on(http.MethodGet, "/api/users/1/workgroups/", http.StatusOK, `{"results":[{"id":2}]}`)
	api.on(http.MethodGet, "/api/workgroups/2/", http.StatusOK, `{"id":2,"users":[{"id":1},{"id":2},{"id":3}]}`)
	api.on(http.MethodGet, "/api/courses/course1/completions/", http.StatusOK, `{"num_pages":1,"results":[
		{"user_id":1,"stage":"stage1"},
		{"user_id":2,"stage":"stage2"},
		{"user_id":3,"stage":"stage1"},
		{"user_id":3,"stage":"stage1"}
	]}`)

	users, completed, err := c.GetStageState(context.Background(), "course1", "activity1", 1, "stage1")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, users)
	assert.Equal(t, []int{1, 3}, completed)
}

func TestClient_GetCompletionsByContentID_Pages(t *testing.T) {
	var pages []string
	srv := newPagedCompletions(t, &pages)
	c := New(srv.URL, false, WithHTTPClient(srv.Client()))

	completions, err := c.GetCompletionsByContentID(context.Background(), "course1", "activity1")
	require.NoError(t, err)
	assert.Len(t, completions, 3)
	assert.Equal(t, []string{"1", "2", "3"}, pages)
}

func TestClient_SetGroupGrade(t *testing.T) {
	api, c := newFakeAPI(t)

	require.NoError(t, c.SetGroupGrade(context.Background(), 3, "course1", "activity1", 85, 100))

	calls := api.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "/api/workgroups/3/grades/", calls[0].Path)
	assert.JSONEq(t, `{"course_id":"course1","content_id":"activity1","grade":85,"max_grade":100}`, calls[0].Body)
}

func TestClient_GetLatestWorkgroupSubmissions(t *testing.T) {
	api, c := newFakeAPI(t)
	api.on(http.MethodGet, "/api/workgroups/3/submissions/", http.StatusOK, `[
		{"id":1,"document_id":"doc1","document_url":"old","modified":"2024-01-01T00:00:00Z"},
		{"id":2,"document_id":"doc1","document_url":"new","modified":"2024-02-01T00:00:00Z"},
		{"id":3,"document_id":"doc2","document_url":"only"}
	]`)

	latest, err := c.GetLatestWorkgroupSubmissions(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "new", latest["doc1"].DocumentURL)
	assert.Equal(t, "only", latest["doc2"].DocumentURL)
}

func TestClient_CreateSubmission(t *testing.T) {
	api, c := newFakeAPI(t)
	api.on(http.MethodPost, "/api/submissions/", http.StatusCreated, `{"id":42,"document_id":"doc1"}`)

	created, err := c.CreateSubmission(context.Background(), Submission{User: 1, Workgroup: 2, DocumentID: "doc1"})
	require.NoError(t, err)
	assert.Equal(t, 42, created.ID)
	assert.Equal(t, 1, created.User)
}
