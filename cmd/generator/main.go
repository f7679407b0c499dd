package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"postview/internal/blog"
	"postview/internal/config"
	"postview/internal/logging"
	"postview/internal/web"
)

func main() {
	baseURL := flag.String("base-url", "", "Override the site base URL")
	outputDir := flag.String("out", "dist", "Output directory")
	flag.Parse()

	cfg := config.Load()
	if *baseURL != "" {
		cfg.SiteBaseURL = strings.TrimRight(*baseURL, "/")
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	source, closeSource, err := config.OpenSource(cfg)
	if err != nil {
		logger.Fatal("open posts source", zap.Error(err))
	}
	defer closeSource()

	svc := blog.NewService(
		blog.WithSource(source),
		blog.WithLatency(cfg.FetchLatency),
		blog.WithLogger(logger.Named("posts")),
	)
	srv := web.NewServer(cfg, svc, logger.Named("web"))

	posts, err := svc.GetPosts()
	if err != nil {
		logger.Fatal("load posts", zap.Error(err))
	}

	if err := os.RemoveAll(*outputDir); err != nil {
		logger.Warn("clean output dir", zap.Error(err))
	}
	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		logger.Fatal("create output dir", zap.Error(err))
	}

	routes := []string{"/"}
	for _, p := range posts {
		routes = append(routes, "/posts/"+strconv.Itoa(p.ID))
	}
	routes = append(routes, "/feed", "/sitemap.xml", "/api/state")

	mux := srv.PublicRoutes()
	for _, route := range routes {
		if err := generate(mux, route, *outputDir); err != nil {
			logger.Error("generate", zap.String("route", route), zap.Error(err))
			continue
		}
		logger.Info("generated", zap.String("route", route))
	}

	// The export can be served as POSTS_SOURCE for another instance.
	if err := blog.WriteDatasetFile(filepath.Join(*outputDir, "posts.json"), posts); err != nil {
		logger.Fatal("write dataset", zap.Error(err))
	}
	logger.Info("static site generated", zap.String("dir", *outputDir), zap.Int("posts", len(posts)))
}

func generate(h http.Handler, route, outputDir string) error {
	req := httptest.NewRequest(http.MethodGet, route, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	outPath := filepath.Join(outputDir, outputPath(route))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// outputPath maps a route to a file: "/" is index.html, routes with an
// extension keep their name, the rest become clean URLs (dir/index.html).
func outputPath(route string) string {
	rel := strings.TrimPrefix(route, "/")
	switch {
	case rel == "":
		return "index.html"
	case route == "/feed":
		return "feed.xml"
	case route == "/api/state":
		return filepath.Join("api", "state.json")
	case filepath.Ext(rel) != "":
		return filepath.FromSlash(rel)
	default:
		return filepath.Join(filepath.FromSlash(rel), "index.html")
	}
}
