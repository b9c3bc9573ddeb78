package http

import (
	"net/http"

	"github.com/lifepost/lifepost/internal/common/constants"
	"github.com/lifepost/lifepost/internal/common/httpmetrics"
	"github.com/lifepost/lifepost/internal/common/logger"
)

func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(recovery(TraceIDMiddleware(maxRequestSize(httpmetrics.Wrap(handler)))))
}
