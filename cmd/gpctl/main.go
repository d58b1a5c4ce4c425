package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"group_project_service/internal/cli"
	"group_project_service/internal/config"
	"group_project_service/internal/domain/service"
	"group_project_service/internal/infrastructure/persistence"
	"group_project_service/internal/infrastructure/projectapi"
	"group_project_service/pkg/application/connectors"
)

func main() {
	deps := cli.Deps{
		Importer:   importer,
		ProjectAPI: projectAPI,
	}

	if err := cli.NewRootCmd(deps).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func importer(ctx context.Context) (cli.ActivityImporter, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("config.Load: %w", err)
	}

	if cfg.Storage.Driver == config.StorageDriverPostgres {
		pg := &connectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		}
		db, err := pg.Client(ctx)
		if err != nil {
			return nil, nil, err
		}
		repo := persistence.NewActivityRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			pg.Close(ctx)
			return nil, nil, err
		}
		return service.NewActivityService(repo), func() { pg.Close(ctx) }, nil
	}

	bolt := &connectors.Bolt{Path: cfg.Bolt.Path}
	db, err := bolt.Client(ctx)
	if err != nil {
		return nil, nil, err
	}
	return service.NewActivityService(persistence.NewBoltActivityRepository(db)), func() { bolt.Close(ctx) }, nil
}

func projectAPI(_ context.Context) (cli.ProjectAPI, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return projectapi.New(
		cfg.ProjectAPI.Address,
		cfg.ProjectAPI.DryRun,
		projectapi.WithHTTPClient(&http.Client{Timeout: cfg.ProjectAPI.Timeout}),
		projectapi.WithToken(cfg.ProjectAPI.Token),
	), nil
}
