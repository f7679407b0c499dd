package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/feeds"
	"go.uber.org/zap"
)

// RSS publishes the posts currently held by the service.
func (s *Server) RSS(w http.ResponseWriter, r *http.Request) {
	siteURL := s.Config.SiteBaseURL
	now := time.Now()

	feed := &feeds.Feed{
		Title:       s.Config.SiteTitle,
		Link:        &feeds.Link{Href: siteURL},
		Description: "Posts loaded from the posts service.",
		Created:     now,
	}

	for _, post := range s.Service.GetState().Posts {
		link := siteURL + "/posts/" + strconv.Itoa(post.ID)
		feed.Items = append(feed.Items, &feeds.Item{
			Id:      link,
			Title:   post.Title,
			Link:    &feeds.Link{Href: link},
			Content: string(s.renderTitle(post.Title)),
			Created: now,
		})
	}

	w.Header().Set("Content-Type", "application/xml")
	if err := feed.WriteRss(w); err != nil {
		s.Log.Error("rss", zap.Error(err))
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
	}
}
