// Package cli implements gpctl, the operator tool for group project activities.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"group_project_service/internal/domain/entity"
	"group_project_service/internal/infrastructure/projectapi"
)

type ActivityImporter interface {
	Import(ctx context.Context, activity entity.Activity) (entity.Activity, []entity.ValidationMessage, error)
}

type ProjectAPI interface {
	GetProjectDetails(ctx context.Context, projectID int) (projectapi.ProjectDetails, error)
	GetStageState(ctx context.Context, courseID, activityID string, userID int, stageID string) ([]int, []int, error)
}

// Deps builds what the commands need. Dependencies are created on first use
// so that commands which do not touch the store never open it.
type Deps struct {
	Importer   func(ctx context.Context) (ActivityImporter, func(), error)
	ProjectAPI func(ctx context.Context) (ProjectAPI, error)
}

func NewRootCmd(deps Deps) *cobra.Command {
	root := &cobra.Command{
		Use:           "gpctl",
		Short:         "Manage group project activities",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newImportCmd(deps),
		newProjectCmd(deps),
		newStageStateCmd(deps),
	)
	return root
}
