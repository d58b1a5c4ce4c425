package cli

import (
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"group_project_service/internal/domain/stage"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

func newProjectCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "project <id>",
		Short: "Show project details from the project API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid project id %q", args[0])
			}

			api, err := deps.ProjectAPI(cmd.Context())
			if err != nil {
				return err
			}
			project, err := api.GetProjectDetails(cmd.Context(), projectID)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(project, "", "  ")
			if err != nil {
				return fmt.Errorf("json.MarshalIndent: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newStageStateCmd(deps Deps) *cobra.Command {
	var (
		courseID   string
		activityID string
		userID     int
		stageID    string
	)

	cmd := &cobra.Command{
		Use:   "stage-state",
		Short: "Show the completion state of a stage for a user's workgroup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := deps.ProjectAPI(cmd.Context())
			if err != nil {
				return err
			}
			users, completed, err := api.GetStageState(cmd.Context(), courseID, activityID, userID, stageID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "state: %s\n", stage.ComputeState(users, completed))
			fmt.Fprintf(out, "workgroup: %v\n", users)
			fmt.Fprintf(out, "completed: %v\n", completed)
			return nil
		},
	}

	cmd.Flags().StringVar(&courseID, "course", "", "course id")
	cmd.Flags().StringVar(&activityID, "activity", "", "activity (content) id")
	cmd.Flags().IntVar(&userID, "user", 0, "user id")
	cmd.Flags().StringVar(&stageID, "stage", "", "stage id")
	for _, name := range []string{"course", "activity", "user", "stage"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
