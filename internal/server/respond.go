package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"group_project_service/internal/domain"
	"group_project_service/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

type errorBody struct {
	Error errorDetails `json:"error"`
}

type errorDetails struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger(ctx).Error("failed to write response", slog.Any("error", err))
	}
}

func writeHTML(ctx context.Context, w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(html)); err != nil {
		logger(ctx).Error("failed to write response", slog.Any("error", err))
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		appErr = domain.WrapError(err, errcodes.InternalServerError, "internal error")
	}

	status := statusOf(appErr)
	if status >= http.StatusInternalServerError {
		logger(ctx).Error("request failed", slog.String("code", string(appErr.Code)), slog.Any("error", err))
	} else {
		logger(ctx).Debug("request rejected", slog.String("code", string(appErr.Code)), slog.Any("error", err))
	}

	message := appErr.Message
	if appErr.Code == errcodes.InternalServerError {
		message = "internal error"
	}
	writeJSON(ctx, w, status, errorBody{Error: errorDetails{
		Code:    string(appErr.Code),
		Message: message,
		Fields:  appErr.Fields,
	}})
}

func statusOf(err *domain.AppError) int {
	switch err.Code {
	case errcodes.NotFound:
		return http.StatusNotFound
	case errcodes.InvalidArgument:
		return http.StatusBadRequest
	case errcodes.Unauthenticated:
		return http.StatusUnauthorized
	case errcodes.NotInWorkgroup:
		return http.StatusForbidden
	case errcodes.StageClosed:
		return http.StatusConflict
	case errcodes.UpstreamError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
