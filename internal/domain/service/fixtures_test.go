package service

import "group_project_service/internal/domain/entity"

// testActivity has one stage of every category. User 1 and 2 are in group 10,
// user 3 in group 20.
func testActivity() entity.Activity {
	return entity.Activity{
		ID:                        "activity1",
		CourseID:                  "course1",
		ProjectID:                 3,
		DisplayName:               "Project",
		GroupReviewsRequiredCount: 2,
		Stages: []entity.Stage{
			{ID: "overview", Category: entity.CategoryBasicStage, DisplayName: "Overview", Components: []entity.Component{
				{ID: "h1", Category: entity.CategoryHTML, Content: "<p>Welcome</p>"},
				{ID: "r1", Category: entity.CategoryResource, DisplayName: "Brief", ResourceLocation: "http://x/brief"},
			}},
			{ID: "upload", Category: entity.CategorySubmissionStage, DisplayName: "Upload", Components: []entity.Component{
				{ID: "sub1", Category: entity.CategorySubmission, DisplayName: "Report", UploadID: "report"},
				{ID: "sub2", Category: entity.CategorySubmission, DisplayName: "Slides"},
			}},
			{ID: "peer", Category: entity.CategoryPeerReviewStage, DisplayName: "Peer review", Components: []entity.Component{
				{ID: "sel", Category: entity.CategoryPeerSelector},
				{ID: "pq1", Category: entity.CategoryReviewQuestion, QuestionID: "peer_score", Required: true},
				{ID: "pq2", Category: entity.CategoryReviewQuestion, QuestionID: "peer_comment"},
			}},
			{ID: "review", Category: entity.CategoryGroupReviewStage, DisplayName: "Group review", Components: []entity.Component{
				{ID: "gq1", Category: entity.CategoryReviewQuestion, QuestionID: "q1", Grade: true, Required: true},
				{ID: "gq2", Category: entity.CategoryReviewQuestion, QuestionID: "q2", Grade: true, Required: true},
				{ID: "gq3", Category: entity.CategoryReviewQuestion, QuestionID: "comment"},
			}},
			{ID: "peer_eval", Category: entity.CategoryPeerAssessmentStage, Components: []entity.Component{
				{ID: "pa1", Category: entity.CategoryReviewAssessment, QuestionID: "peer_score"},
			}},
			{ID: "group_eval", Category: entity.CategoryGroupAssessmentStage, Components: []entity.Component{
				{ID: "ga1", Category: entity.CategoryReviewAssessment, QuestionID: "q1"},
			}},
			{ID: "broken", Category: entity.CategorySubmissionStage, DisplayName: "Broken"},
		},
	}
}

func testAPI() *fakeAPI {
	api := newFakeAPI()
	api.addGroup(10, "Group Ten", 1, 2)
	api.addGroup(20, "Group Twenty", 3)
	return api
}
