package constants

import "net/http"

// CodedError carries the HTTP status code the API layer should answer with.
type CodedError struct {
	code int
	msg  string
}

func NewCodedError(code int, msg string) *CodedError {
	return &CodedError{code: code, msg: msg}
}

func (e *CodedError) Code() int {
	return e.code
}

func (e *CodedError) Error() string {
	return e.msg
}

var (
	ErrUnauthorized   = NewCodedError(http.StatusUnauthorized, "unauthorized")
	ErrForbidden      = NewCodedError(http.StatusForbidden, "forbidden")
	ErrNotFound       = NewCodedError(http.StatusNotFound, "not found")
	ErrTerminalRecord = NewCodedError(http.StatusConflict, "record is approved or rejected and can no longer be modified")
	ErrNotLoggedIn    = NewCodedError(http.StatusUnauthorized, "no active registry session, login first")
)

// viper keys
const (
	ViperListenAddr  = "listen_addr"
	ViperRegistryURL = "registry_url"
	ViperSessionFile = "session_file"
	ViperLogLevel    = "log_level"
	ViperCORSOrigin  = "cors_origin"
)
