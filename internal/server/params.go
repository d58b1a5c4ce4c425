package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"group_project_service/internal/domain"
	"group_project_service/internal/domain/service"
	"group_project_service/pkg/errcodes"
)

const (
	headerUserID      = "X-User-Id"
	headerAdminGrader = "X-Admin-Grader"
)

func pathParam[T any](r *http.Request, name string) (T, error) {
	var value T
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &value,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		return value, domain.NewValidationError(fmt.Sprintf("invalid path parameter %s", name),
			domain.FieldError{Field: name, Error: err.Error()})
	}
	return value, nil
}

func queryParam[T any](r *http.Request, name string, required bool) (T, error) {
	var value T
	if err := runtime.BindQueryParameter("form", true, required, name, r.URL.Query(), &value); err != nil {
		return value, domain.NewValidationError(fmt.Sprintf("invalid query parameter %s", name),
			domain.FieldError{Field: name, Error: err.Error()})
	}
	return value, nil
}

func headerParam[T any](r *http.Request, name string) (T, bool, error) {
	var value T
	raw := r.Header.Get(name)
	if raw == "" {
		return value, false, nil
	}
	err := runtime.BindStyledParameterWithOptions("simple", name, raw, &value,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationHeader,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		return value, false, domain.NewValidationError(fmt.Sprintf("invalid header %s", name),
			domain.FieldError{Field: name, Error: err.Error()})
	}
	return value, true, nil
}

// viewer identifies the user from the request headers set by the LMS proxy.
func viewer(r *http.Request) (service.Viewer, error) {
	userID, ok, err := headerParam[int](r, headerUserID)
	if err != nil {
		return service.Viewer{}, err
	}
	if !ok {
		return service.Viewer{}, domain.NewError(errcodes.Unauthenticated, headerUserID+" header is required")
	}

	admin, _, err := headerParam[bool](r, headerAdminGrader)
	if err != nil {
		return service.Viewer{}, err
	}
	return service.Viewer{UserID: userID, AdminGrader: admin}, nil
}

type stageParams struct {
	viewer     service.Viewer
	activityID string
	stageID    string
}

func stageParamsFrom(r *http.Request) (stageParams, error) {
	v, err := viewer(r)
	if err != nil {
		return stageParams{}, err
	}
	activityID, err := pathParam[string](r, "activityID")
	if err != nil {
		return stageParams{}, err
	}
	stageID, err := pathParam[string](r, "stageID")
	if err != nil {
		return stageParams{}, err
	}
	return stageParams{viewer: v, activityID: activityID, stageID: stageID}, nil
}
