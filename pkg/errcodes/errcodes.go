package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	NotFound            failure.ErrorCode = "NotFound"
	InvalidArgument     failure.ErrorCode = "InvalidArgument"
	Unauthenticated     failure.ErrorCode = "Unauthenticated"
	StageClosed         failure.ErrorCode = "StageClosed"
	StageMisconfigured  failure.ErrorCode = "StageMisconfigured"
	NotInWorkgroup      failure.ErrorCode = "NotInWorkgroup"
	UpstreamError       failure.ErrorCode = "UpstreamError"
	InternalServerError failure.ErrorCode = "InternalError"
)
