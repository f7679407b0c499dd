package main

import (
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"postview/internal/blog"
	"postview/internal/config"
	"postview/internal/logging"
	"postview/internal/web"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	source, closeSource, err := config.OpenSource(cfg)
	if err != nil {
		logger.Fatal("open posts source", zap.String("source", cfg.PostsSource), zap.Error(err))
	}
	defer closeSource()

	svc := blog.NewService(
		blog.WithSource(source),
		blog.WithLatency(cfg.FetchLatency),
		blog.WithLogger(logger.Named("posts")),
	)
	server := web.NewServer(cfg, svc, logger.Named("web"))

	logger.Info("server listening",
		zap.String("addr", cfg.PublicAddr),
		zap.Duration("fetch_latency", cfg.FetchLatency),
	)
	if err := http.ListenAndServe(cfg.PublicAddr, server.PublicRoutes()); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
