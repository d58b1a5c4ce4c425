package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/samber/lo"

	"group_project_service/internal/domain"
	"group_project_service/internal/domain/entity"
	"group_project_service/internal/domain/stage"
	"group_project_service/internal/infrastructure/projectapi"
	"group_project_service/pkg/errcodes"
	"group_project_service/pkg/filenamex"
)

type uploadAPI interface {
	workgroupAPI
	submissionAPI
}

type SubmissionService struct {
	api    uploadAPI
	files  FileStorage
	stages *StageService
}

func NewSubmissionService(api uploadAPI, files FileStorage, stages *StageService) *SubmissionService {
	return &SubmissionService{
		api:    api,
		files:  files,
		stages: stages,
	}
}

// File is an uploaded document.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Upload stores file as the viewer's workgroup submission for submissionID.
// When every submission of the stage has a document the stage is marked
// complete for the whole workgroup.
func (s *SubmissionService) Upload(
	ctx context.Context,
	viewer Viewer,
	activityID, stageID, submissionID string,
	file File,
) (entity.Upload, error) {
	st, err := s.stages.Stage(ctx, viewer, activityID, stageID)
	if err != nil {
		return entity.Upload{}, err
	}
	uploader, ok := st.(*stage.SubmissionStage)
	if !ok {
		return entity.Upload{}, domain.NewError(errcodes.InvalidArgument,
			fmt.Sprintf("stage %s does not accept uploads", stageID))
	}
	if !uploader.IsUploadAvailable(nowFunc()) {
		return entity.Upload{}, domain.NewError(errcodes.StageClosed,
			fmt.Sprintf("uploads to stage %s are not available", stageID))
	}
	component, ok := lo.Find(uploader.Submissions(), func(c entity.Component) bool {
		return c.ID == submissionID
	})
	if !ok {
		return entity.Upload{}, domain.NewError(errcodes.NotFound,
			fmt.Sprintf("submission %s not found in stage %s", submissionID, stageID))
	}

	activity := st.Activity()
	group, err := s.api.GetUserWorkgroupForCourse(ctx, viewer.UserID, activity.CourseID)
	if err != nil {
		return entity.Upload{}, upstream(err, "failed to get user workgroup")
	}
	if group == nil {
		return entity.Upload{}, domain.NewError(errcodes.NotInWorkgroup,
			fmt.Sprintf("user %d is not in a workgroup of course %s", viewer.UserID, activity.CourseID))
	}

	filename := filenamex.Normalize(file.Name)
	key := fmt.Sprintf("%s/%d/%s/%s", filenamex.Normalize(activity.CourseID), group.ID, component.DocumentID(), filename)
	url, err := s.files.Put(ctx, key, file.Body, file.ContentType)
	if err != nil {
		return entity.Upload{}, domain.WrapError(err, errcodes.InternalServerError, "failed to store uploaded file")
	}

	created, err := s.api.CreateSubmission(ctx, projectapi.Submission{
		User:             viewer.UserID,
		Workgroup:        group.ID,
		Project:          activity.ProjectID,
		DocumentID:       component.DocumentID(),
		DocumentURL:      url,
		DocumentFilename: filename,
		DocumentMimeType: file.ContentType,
	})
	if err != nil {
		return entity.Upload{}, upstream(err, "failed to create submission")
	}

	logger(ctx).Info("submission uploaded",
		slog.String("activity_id", activity.ID),
		slog.Int("group_id", group.ID),
		slog.String("document_id", component.DocumentID()),
	)

	latest, err := s.api.GetLatestWorkgroupSubmissions(ctx, group.ID)
	if err != nil {
		return entity.Upload{}, upstream(err, "failed to get workgroup submissions")
	}
	if uploader.HasAllSubmissions(lo.Keys(latest)) {
		for _, userID := range toWorkgroup(*group).MemberIDs() {
			if err := s.stages.MarkComplete(ctx, activity, userID, stageID); err != nil {
				return entity.Upload{}, err
			}
		}
	}

	return toUpload(created), nil
}

// Uploads returns the latest upload of the viewer's workgroup per document id.
func (s *SubmissionService) Uploads(ctx context.Context, viewer Viewer, activity entity.Activity) (map[string]entity.Upload, error) {
	group, err := s.api.GetUserWorkgroupForCourse(ctx, viewer.UserID, activity.CourseID)
	if err != nil {
		return nil, upstream(err, "failed to get user workgroup")
	}
	if group == nil {
		return map[string]entity.Upload{}, nil
	}
	latest, err := s.api.GetLatestWorkgroupSubmissions(ctx, group.ID)
	if err != nil {
		return nil, upstream(err, "failed to get workgroup submissions")
	}
	return lo.MapValues(latest, func(sub projectapi.Submission, _ string) entity.Upload {
		return toUpload(sub)
	}), nil
}
