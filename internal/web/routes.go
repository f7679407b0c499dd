package web

import "net/http"

func (s *Server) PublicRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.Index)
	mux.HandleFunc("/posts/", s.PostDetail)
	mux.HandleFunc("/api/state", s.State)
	mux.HandleFunc("/live", s.Live)
	mux.HandleFunc("/feed", s.RSS)
	mux.HandleFunc("/sitemap.xml", s.Sitemap)

	return mux
}
