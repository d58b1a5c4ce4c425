package projectapi

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/samber/lo"
)

func (c *Client) GetProjectDetails(ctx context.Context, projectID int) (ProjectDetails, error) {
	var project ProjectDetails
	err := c.do(ctx, http.MethodGet, []any{ProjectsAPI, projectID}, &project, WithoutTrailingSlash())
	return project, err
}

// GetProjectByContentID returns nil when the course has no project for contentID.
func (c *Client) GetProjectByContentID(ctx context.Context, courseID, contentID string) (*ProjectDetails, error) {
	var projects page[ProjectDetails]
	query := url.Values{"course_id": {courseID}, "content_id": {contentID}}
	if err := c.do(ctx, http.MethodGet, []any{ProjectsAPI}, &projects, WithQuery(query)); err != nil {
		return nil, err
	}
	if len(projects.Results) == 0 {
		return nil, nil
	}
	return &projects.Results[0], nil
}

func (c *Client) GetUserDetails(ctx context.Context, userID int) (UserDetails, error) {
	var user UserDetails
	err := c.do(ctx, http.MethodGet, []any{UsersAPI, userID}, &user)
	return user, err
}

func (c *Client) GetUserOrganizations(ctx context.Context, userID int) ([]Organization, error) {
	var orgs page[Organization]
	err := c.do(ctx, http.MethodGet, []any{UsersAPI, userID, OrganizationsAPI}, &orgs)
	return orgs.Results, err
}

func (c *Client) GetUserRolesForCourse(ctx context.Context, userID int, courseID string) ([]CourseRole, error) {
	var roles []CourseRole
	query := url.Values{"user_id": {strconv.Itoa(userID)}}
	err := c.do(ctx, http.MethodGet, []any{CoursesAPI, courseID, "roles"}, &roles, WithQuery(query))
	return roles, err
}

func (c *Client) GetWorkgroupByID(ctx context.Context, groupID int) (WorkgroupDetails, error) {
	var group WorkgroupDetails
	err := c.do(ctx, http.MethodGet, []any{WorkgroupAPI, groupID}, &group)
	return group, err
}

// GetUserWorkgroupForCourse returns the full details of the user's workgroup
// in the course, or nil when the user is not in any.
func (c *Client) GetUserWorkgroupForCourse(ctx context.Context, userID int, courseID string) (*WorkgroupDetails, error) {
	var groups page[WorkgroupDetails]
	query := url.Values{"course_id": {courseID}}
	if err := c.do(ctx, http.MethodGet, []any{UsersAPI, userID, WorkgroupAPI}, &groups, WithQuery(query)); err != nil {
		return nil, err
	}
	if len(groups.Results) == 0 {
		return nil, nil
	}

	group, err := c.GetWorkgroupByID(ctx, groups.Results[0].ID)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// GetWorkgroupReviewers lists the users assigned to review groupID for contentID.
func (c *Client) GetWorkgroupReviewers(ctx context.Context, groupID int, contentID string) ([]UserSummary, error) {
	var assignments []ReviewAssignmentGroup
	err := c.do(ctx, http.MethodGet, []any{WorkgroupAPI, groupID, GroupAPI}, &assignments, WithoutTrailingSlash())
	if err != nil {
		return nil, err
	}

	var reviewers []UserSummary
	for _, assignment := range assignments {
		if assignment.Data.XBlockID != contentID {
			continue
		}
		var users struct {
			Users []UserSummary `json:"users"`
		}
		if err := c.do(ctx, http.MethodGet, []any{assignment.URL, UsersAPI}, &users); err != nil {
			return nil, err
		}
		reviewers = append(reviewers, users.Users...)
	}
	return reviewers, nil
}

func (c *Client) GetReviewAssignmentGroups(ctx context.Context, userID int, courseID, xblockID string) ([]ReviewAssignmentGroup, error) {
	var response struct {
		Groups []ReviewAssignmentGroup `json:"groups"`
	}
	query := url.Values{
		"type":            {"reviewassignment"},
		"course":          {courseID},
		"data__xblock_id": {xblockID},
	}
	err := c.do(ctx, http.MethodGet, []any{UsersAPI, userID, GroupAPI}, &response, WithQuery(query))
	return response.Groups, err
}

func (c *Client) GetWorkgroupsForAssignment(ctx context.Context, assignmentID int) ([]WorkgroupDetails, error) {
	var groups page[WorkgroupDetails]
	err := c.do(ctx, http.MethodGet, []any{GroupAPI, assignmentID, WorkgroupAPI}, &groups)
	return groups.Results, err
}

// GetWorkgroupsToReview flattens the workgroups of every review assignment of
// the user, in assignment order.
func (c *Client) GetWorkgroupsToReview(ctx context.Context, userID int, courseID, xblockID string) ([]WorkgroupDetails, error) {
	assignments, err := c.GetReviewAssignmentGroups(ctx, userID, courseID, xblockID)
	if err != nil {
		return nil, err
	}

	var workgroups []WorkgroupDetails
	for _, assignment := range assignments {
		groups, err := c.GetWorkgroupsForAssignment(ctx, assignment.ID)
		if err != nil {
			return nil, err
		}
		workgroups = append(workgroups, groups...)
	}
	return workgroups, nil
}

func (c *Client) GetPeerReviewItemsForGroup(ctx context.Context, groupID int, contentID string) ([]ReviewItem, error) {
	var items []ReviewItem
	query := url.Values{"content_id": {contentID}}
	err := c.do(ctx, http.MethodGet, []any{WorkgroupAPI, groupID, PeerReviewAPI}, &items, WithQuery(query))
	return items, err
}

func (c *Client) GetWorkgroupReviewItemsForGroup(ctx context.Context, groupID int, contentID string) ([]ReviewItem, error) {
	var items []ReviewItem
	query := url.Values{"content_id": {contentID}}
	err := c.do(ctx, http.MethodGet, []any{WorkgroupAPI, groupID, WorkgroupReviewAPI}, &items, WithQuery(query))
	return items, err
}

// GetPeerReviewItems returns the answers reviewerID gave about peerID.
func (c *Client) GetPeerReviewItems(ctx context.Context, reviewerID, peerID, groupID int, contentID string) ([]ReviewItem, error) {
	items, err := c.GetPeerReviewItemsForGroup(ctx, groupID, contentID)
	if err != nil {
		return nil, err
	}
	return FilterPeerReviewItems(items, reviewerID, peerID), nil
}

// GetUserPeerReviewItems returns every answer given about userID.
func (c *Client) GetUserPeerReviewItems(ctx context.Context, userID, groupID int, contentID string) ([]ReviewItem, error) {
	items, err := c.GetPeerReviewItemsForGroup(ctx, groupID, contentID)
	if err != nil {
		return nil, err
	}
	return FilterUserPeerReviewItems(items, userID), nil
}

// GetWorkgroupReviewItems returns the answers reviewerID gave about groupID for contentID.
func (c *Client) GetWorkgroupReviewItems(ctx context.Context, reviewerID, groupID int, contentID string) ([]ReviewItem, error) {
	items, err := c.GetWorkgroupReviewItemsForGroup(ctx, groupID, contentID)
	if err != nil {
		return nil, err
	}
	return FilterWorkgroupReviewItems(items, reviewerID, contentID), nil
}

func FilterPeerReviewItems(items []ReviewItem, reviewerID, peerID int) []ReviewItem {
	reviewer := strconv.Itoa(reviewerID)
	return lo.Filter(items, func(item ReviewItem, _ int) bool {
		return item.Reviewer == reviewer && item.User == peerID
	})
}

func FilterUserPeerReviewItems(items []ReviewItem, userID int) []ReviewItem {
	return lo.Filter(items, func(item ReviewItem, _ int) bool {
		return item.User == userID
	})
}

func FilterWorkgroupReviewItems(items []ReviewItem, reviewerID int, contentID string) []ReviewItem {
	reviewer := strconv.Itoa(reviewerID)
	return lo.Filter(items, func(item ReviewItem, _ int) bool {
		return item.Reviewer == reviewer && item.ContentID == contentID
	})
}

// SubmitPeerReviewItems stores reviewerID's answers about peerID, updating
// answers to questions that were already answered.
func (c *Client) SubmitPeerReviewItems(ctx context.Context, reviewerID, peerID, groupID int, contentID string, answers map[string]string) error {
	existing, err := c.GetPeerReviewItems(ctx, reviewerID, peerID, groupID, contentID)
	if err != nil {
		return err
	}

	return c.upsertReviewItems(ctx, PeerReviewAPI, existing, answers, ReviewItem{
		Reviewer:  strconv.Itoa(reviewerID),
		User:      peerID,
		Workgroup: groupID,
		ContentID: contentID,
	})
}

// SubmitWorkgroupReviewItems stores reviewerID's answers about groupID.
func (c *Client) SubmitWorkgroupReviewItems(ctx context.Context, reviewerID, groupID int, contentID string, answers map[string]string) error {
	existing, err := c.GetWorkgroupReviewItems(ctx, reviewerID, groupID, contentID)
	if err != nil {
		return err
	}

	return c.upsertReviewItems(ctx, WorkgroupReviewAPI, existing, answers, ReviewItem{
		Reviewer:  strconv.Itoa(reviewerID),
		Workgroup: groupID,
		ContentID: contentID,
	})
}

func (c *Client) upsertReviewItems(
	ctx context.Context,
	resource string,
	existing []ReviewItem,
	answers map[string]string,
	template ReviewItem,
) error {
	byQuestion := lo.KeyBy(existing, func(item ReviewItem) string {
		return item.Question
	})

	questions := lo.Keys(answers)
	sort.Strings(questions)

	for _, question := range questions {
		item := template
		item.Question = question
		item.Answer = answers[question]

		if old, ok := byQuestion[question]; ok {
			if err := c.do(ctx, http.MethodPut, []any{resource, old.ID}, nil, WithData(item)); err != nil {
				return err
			}
			continue
		}
		if err := c.do(ctx, http.MethodPost, []any{resource}, nil, WithData(item)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) DeletePeerReviewItem(ctx context.Context, itemID int) error {
	return c.do(ctx, http.MethodDelete, []any{PeerReviewAPI, itemID}, nil)
}

func (c *Client) DeleteWorkgroupReviewItem(ctx context.Context, itemID int) error {
	return c.do(ctx, http.MethodDelete, []any{WorkgroupReviewAPI, itemID}, nil)
}

// MarkAsComplete records that userID completed stageID. The API answers 409
// when the record already exists; callers decide whether that matters.
func (c *Client) MarkAsComplete(ctx context.Context, courseID, contentID string, userID int, stageID string) error {
	completion := Completion{
		UserID:    userID,
		CourseID:  courseID,
		ContentID: contentID,
		Stage:     stageID,
	}
	return c.do(ctx, http.MethodPost, []any{CoursesAPI, courseID, "completions"}, nil, WithData(completion))
}

// GetCompletionsByContentID collects every page of completions recorded for contentID.
func (c *Client) GetCompletionsByContentID(ctx context.Context, courseID, contentID string) ([]Completion, error) {
	var completions []Completion
	for pageNum := 1; ; pageNum++ {
		var p page[Completion]
		query := url.Values{"content_id": {contentID}, "page": {strconv.Itoa(pageNum)}}
		if err := c.do(ctx, http.MethodGet, []any{CoursesAPI, courseID, "completions"}, &p, WithQuery(query)); err != nil {
			return nil, err
		}
		completions = append(completions, p.Results...)
		if pageNum >= p.NumPages {
			return completions, nil
		}
	}
}

// GetStageState returns the members of userID's workgroup and the users
// that completed stageID of the activity.
func (c *Client) GetStageState(ctx context.Context, courseID, activityID string, userID int, stageID string) (usersInGroup, completedUsers []int, err error) {
	group, err := c.GetUserWorkgroupForCourse(ctx, userID, courseID)
	if err != nil {
		return nil, nil, err
	}
	if group != nil {
		usersInGroup = group.UserIDs()
	}

	completions, err := c.GetCompletionsByContentID(ctx, courseID, activityID)
	if err != nil {
		return nil, nil, err
	}
	for _, completion := range completions {
		if completion.Stage == stageID {
			completedUsers = append(completedUsers, completion.UserID)
		}
	}
	return lo.Uniq(usersInGroup), lo.Uniq(completedUsers), nil
}

func (c *Client) SetGroupGrade(ctx context.Context, groupID int, courseID, activityID string, grade, maxGrade float64) error {
	payload := Grade{
		CourseID:  courseID,
		ContentID: activityID,
		Grade:     grade,
		MaxGrade:  maxGrade,
	}
	return c.do(ctx, http.MethodPost, []any{WorkgroupAPI, groupID, "grades"}, nil, WithData(payload))
}

func (c *Client) CreateSubmission(ctx context.Context, submission Submission) (Submission, error) {
	created := submission
	err := c.do(ctx, http.MethodPost, []any{SubmissionAPI}, &created, WithData(submission))
	return created, err
}

// GetLatestWorkgroupSubmissions returns the most recent submission of groupID per document id.
func (c *Client) GetLatestWorkgroupSubmissions(ctx context.Context, groupID int) (map[string]Submission, error) {
	var submissions []Submission
	if err := c.do(ctx, http.MethodGet, []any{WorkgroupAPI, groupID, SubmissionAPI}, &submissions); err != nil {
		return nil, err
	}

	latest := make(map[string]Submission, len(submissions))
	for _, s := range submissions {
		current, ok := latest[s.DocumentID]
		if !ok || newerSubmission(s, current) {
			latest[s.DocumentID] = s
		}
	}
	return latest, nil
}

func newerSubmission(a, b Submission) bool {
	if a.Modified != nil && b.Modified != nil && !a.Modified.Equal(*b.Modified) {
		return a.Modified.After(*b.Modified)
	}
	return a.ID > b.ID
}
