package http

const (
	CodeUnknown          = "UNKNOWN"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeInvalidJSON      = "INVALID_JSON"
	CodeBadRequest       = "BAD_REQUEST"
	CodeInvalidPath      = "INVALID_PATH"
	CodeInvalidForm      = "INVALID_FORM"
	CodeImageTooLarge    = "IMAGE_TOO_LARGE"
)
