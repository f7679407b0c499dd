package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"postview/internal/blog"
)

// Index is the root view. It renders the state as it is now; the page then
// opens /live, which activates a binding and loads the posts.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := s.baseData(r)
	addState(data, s.Service.GetState())
	data["Description"] = "Posts loaded from the posts service."
	s.render(w, "index.html", data)
}

func (s *Server) PostDetail(w http.ResponseWriter, r *http.Request) {
	raw := strings.Trim(strings.TrimPrefix(r.URL.Path, "/posts/"), "/")
	if raw == "" {
		http.NotFound(w, r)
		return
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}

	post, ok, err := s.Service.GetPost(id)
	if err != nil {
		s.Log.Error("get post", zap.Int("id", id), zap.Error(err))
		http.Error(w, "failed to load post", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}

	data := s.baseData(r)
	data["Post"] = post
	data["Title"] = post.Title + " - " + data["SiteTitle"].(string)
	data["IsPost"] = true
	s.render(w, "post.html", data)
}

func (s *Server) State(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Service.GetState()); err != nil {
		s.Log.Warn("encode state", zap.Error(err))
	}
}

func (s *Server) baseData(r *http.Request) map[string]any {
	return map[string]any{
		"Title":       s.Config.SiteTitle,
		"SiteTitle":   s.Config.SiteTitle,
		"SiteURL":     s.Config.SiteBaseURL,
		"CurrentPath": r.URL.Path,
	}
}

func addState(data map[string]any, st blog.State) {
	data["Count"] = st.Count
	data["Posts"] = st.Posts
	data["Loaded"] = st.Loaded()
}
