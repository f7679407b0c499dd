// Package handler is the serverless entry point. It serves the process-wide
// posts service returned by blog.Current.
package handler

import (
	"net/http"
	"sync"

	"go.uber.org/zap"

	"postview/internal/binding"
	"postview/internal/blog"
	"postview/internal/config"
	"postview/internal/logging"
	"postview/internal/web"
)

var (
	handler http.Handler
	once    sync.Once

	// view is the root view binding for this instance. It lives as long as
	// the instance and is never deactivated.
	view *binding.Binding
)

func initApp() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		logger = zap.NewNop()
	}

	// Functions are stateless between cold starts, so the sample dataset and
	// the singleton service are all we need. Websockets are not available
	// here, so the instance mounts the root view itself and loads once.
	svc := blog.Current()
	view = binding.Activate(svc, binding.WithLogger(logger.Named("view")))

	server := web.NewServer(cfg, svc, logger.Named("web"))
	handler = server.PublicRoutes()
}

// Handler is the entry point for Vercel.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(initApp)
	handler.ServeHTTP(w, r)
}
