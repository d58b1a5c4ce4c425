package persistence

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"

	"group_project_service/internal/domain"
	"group_project_service/internal/domain/entity"
	"group_project_service/pkg/errcodes"
)

//go:embed migrations/*.sql
var migrations embed.FS

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

type ActivityRepository struct {
	db *sqlx.DB
}

func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Migrate applies the embedded schema. Every statement is idempotent.
func (r *ActivityRepository) Migrate(ctx context.Context) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("fs.Glob: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		query, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("migrations.ReadFile(%s): %w", name, err)
		}
		if _, err := r.db.ExecContext(ctx, string(query)); err != nil {
			return fmt.Errorf("repository: failed to apply %s: %w", name, err)
		}
	}
	return nil
}

type activityRow struct {
	ID                        string  `db:"id"`
	CourseID                  string  `db:"course_id"`
	ProjectID                 int     `db:"project_id"`
	DisplayName               string  `db:"display_name"`
	Weight                    float64 `db:"weight"`
	GroupReviewsRequiredCount int     `db:"group_reviews_required_count"`
	UserReviewsRequiredCount  int     `db:"user_reviews_required_count"`
}

type stageRow struct {
	ActivityID  string           `db:"activity_id"`
	ID          string           `db:"id"`
	Position    int              `db:"position"`
	Category    string           `db:"category"`
	DisplayName string           `db:"display_name"`
	OpenDate    *time.Time       `db:"open_date"`
	CloseDate   *time.Time       `db:"close_date"`
	Components  componentsColumn `db:"components"`
}

// componentsColumn stores stage components as JSONB.
type componentsColumn []entity.Component

func (c componentsColumn) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]entity.Component(c))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (c *componentsColumn) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*c = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("componentsColumn: unsupported type %T", src)
	}
	return json.Unmarshal(data, (*[]entity.Component)(c))
}

func (r *ActivityRepository) Get(ctx context.Context, id string) (entity.Activity, error) {
	query := `
        SELECT id, course_id, project_id, display_name, weight,
               group_reviews_required_count, user_reviews_required_count
        FROM activities
        WHERE id = $1
    `

	var row activityRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Activity{}, domain.NewError(errcodes.NotFound, fmt.Sprintf("activity '%s' not found", id))
		}
		return entity.Activity{}, domain.WrapError(err, errcodes.InternalServerError, "repository: failed to get activity")
	}

	stages, err := r.stages(ctx, []string{id})
	if err != nil {
		return entity.Activity{}, err
	}
	return toActivity(row, stages[id]), nil
}

func (r *ActivityRepository) List(ctx context.Context, ids []string) ([]entity.Activity, error) {
	query := `
        SELECT id, course_id, project_id, display_name, weight,
               group_reviews_required_count, user_reviews_required_count
        FROM activities
        WHERE cardinality($1::text[]) = 0 OR id = ANY($1)
        ORDER BY id
    `

	if ids == nil {
		ids = []string{}
	}

	var rows []activityRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "repository: failed to list activities")
	}

	activityIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		activityIDs = append(activityIDs, row.ID)
	}
	stages, err := r.stages(ctx, activityIDs)
	if err != nil {
		return nil, err
	}

	activities := make([]entity.Activity, 0, len(rows))
	for _, row := range rows {
		activities = append(activities, toActivity(row, stages[row.ID]))
	}
	return activities, nil
}

func (r *ActivityRepository) stages(ctx context.Context, activityIDs []string) (map[string][]entity.Stage, error) {
	query := `
        SELECT activity_id, id, position, category, display_name, open_date, close_date, components
        FROM stages
        WHERE activity_id = ANY($1)
        ORDER BY activity_id, position
    `

	if len(activityIDs) == 0 {
		return map[string][]entity.Stage{}, nil
	}

	var rows []stageRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(activityIDs)); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "repository: failed to get stages")
	}

	stages := make(map[string][]entity.Stage, len(activityIDs))
	for _, row := range rows {
		stages[row.ActivityID] = append(stages[row.ActivityID], entity.Stage{
			ID:          row.ID,
			Category:    entity.StageCategory(row.Category),
			DisplayName: row.DisplayName,
			OpenDate:    row.OpenDate,
			CloseDate:   row.CloseDate,
			Components:  []entity.Component(row.Components),
		})
	}
	return stages, nil
}

// Save replaces the activity and all its stages.
func (r *ActivityRepository) Save(ctx context.Context, activity entity.Activity) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "repository: failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	activityQuery := `
        INSERT INTO activities (id, course_id, project_id, display_name, weight,
                                group_reviews_required_count, user_reviews_required_count)
        VALUES (:id, :course_id, :project_id, :display_name, :weight,
                :group_reviews_required_count, :user_reviews_required_count)
        ON CONFLICT (id) DO UPDATE SET
            course_id = EXCLUDED.course_id,
            project_id = EXCLUDED.project_id,
            display_name = EXCLUDED.display_name,
            weight = EXCLUDED.weight,
            group_reviews_required_count = EXCLUDED.group_reviews_required_count,
            user_reviews_required_count = EXCLUDED.user_reviews_required_count,
            updated_at = now()
    `
	if _, err = tx.NamedExecContext(ctx, activityQuery, activityRow{
		ID:                        activity.ID,
		CourseID:                  activity.CourseID,
		ProjectID:                 activity.ProjectID,
		DisplayName:               activity.DisplayName,
		Weight:                    activity.Weight,
		GroupReviewsRequiredCount: activity.GroupReviewsRequiredCount,
		UserReviewsRequiredCount:  activity.UserReviewsRequiredCount,
	}); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "repository: failed to save activity")
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM stages WHERE activity_id = $1`, activity.ID); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "repository: failed to replace stages")
	}

	stageQuery := `
        INSERT INTO stages (activity_id, id, position, category, display_name, open_date, close_date, components)
        VALUES (:activity_id, :id, :position, :category, :display_name, :open_date, :close_date, :components)
    `
	for i, st := range activity.Stages {
		_, err = tx.NamedExecContext(ctx, stageQuery, stageRow{
			ActivityID:  activity.ID,
			ID:          st.ID,
			Position:    i,
			Category:    string(st.Category),
			DisplayName: st.DisplayName,
			OpenDate:    st.OpenDate,
			CloseDate:   st.CloseDate,
			Components:  componentsColumn(st.Components),
		})
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domain.NewError(errcodes.InvalidArgument,
					fmt.Sprintf("stage '%s' appears twice in activity '%s'", st.ID, activity.ID))
			}
			return domain.WrapError(err, errcodes.InternalServerError, "repository: failed to save stage")
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "repository: failed to commit activity")
	}
	return nil
}

func toActivity(row activityRow, stages []entity.Stage) entity.Activity {
	return entity.Activity{
		ID:                        row.ID,
		CourseID:                  row.CourseID,
		ProjectID:                 row.ProjectID,
		DisplayName:               row.DisplayName,
		Weight:                    row.Weight,
		GroupReviewsRequiredCount: row.GroupReviewsRequiredCount,
		UserReviewsRequiredCount:  row.UserReviewsRequiredCount,
		Stages:                    stages,
	}
}
