package web

import (
	"encoding/xml"
	"net/http"
	"strconv"
)

type URL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type URLSet struct {
	XMLName xml.Name `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 urlset"`
	URLs    []URL    `xml:"url"`
}

func (s *Server) Sitemap(w http.ResponseWriter, r *http.Request) {
	baseURL := s.Config.SiteBaseURL

	urls := []URL{{
		Loc:        baseURL + "/",
		ChangeFreq: "daily",
		Priority:   "1.0",
	}}
	for _, post := range s.Service.GetState().Posts {
		urls = append(urls, URL{
			Loc:      baseURL + "/posts/" + strconv.Itoa(post.ID),
			Priority: "0.8",
		})
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml.Header))
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(URLSet{URLs: urls}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
