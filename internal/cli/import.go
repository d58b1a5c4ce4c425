package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"group_project_service/internal/domain/entity"
)

func newImportCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import activity definitions from a YAML file",
		Long: `Import one or more activities from a YAML file into the activity store.

Several activities can be given as separate YAML documents. Missing ids are
generated, and stage validation messages are printed after each import.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("os.Open: %w", err)
			}
			defer f.Close()

			activities, err := decodeActivities(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if len(activities) == 0 {
				return fmt.Errorf("%s: no activities found", args[0])
			}

			importer, closeFn, err := deps.Importer(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			for _, activity := range activities {
				imported, messages, err := importer.Import(cmd.Context(), activity)
				if err != nil {
					return fmt.Errorf("import %q: %w", activity.DisplayName, err)
				}
				fmt.Fprintf(out, "imported %s (%s): %d stages\n", imported.ID, imported.DisplayName, len(imported.Stages))
				for _, m := range messages {
					fmt.Fprintf(out, "  %s: %s\n", m.Type, m.Text)
				}
			}
			return nil
		},
	}
}

func decodeActivities(r io.Reader) ([]entity.Activity, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var activities []entity.Activity
	for {
		var activity entity.Activity
		err := dec.Decode(&activity)
		if errors.Is(err, io.EOF) {
			return activities, nil
		}
		if err != nil {
			return nil, fmt.Errorf("yaml: %w", err)
		}
		activities = append(activities, activity)
	}
}
