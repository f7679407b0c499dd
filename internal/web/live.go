package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"postview/internal/binding"
	"postview/internal/blog"
)

const liveWriteTimeout = 10 * time.Second

type liveMessage struct {
	Type  string      `json:"type"`
	Count int         `json:"count"`
	Posts []blog.Post `json:"posts"`
	HTML  string      `json:"html"`
}

type liveCommand struct {
	Type string `json:"type"`
	ID   int    `json:"id,omitempty"`
}

// Live keeps one view binding per connection. Every state broadcast is sent
// to the client with the re-rendered post list. A slow client only gets the
// latest state.
func (s *Server) Live(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	vid := fmt.Sprintf("V%d", s.nextView.Add(1))
	log := s.Log.With(zap.String("view", vid))

	updates := make(chan blog.State, 1)
	b := binding.Activate(s.Service,
		binding.WithLogger(log),
		binding.OnChange(func(st blog.State) { offerLatest(updates, st) }),
	)
	defer b.Deactivate()
	log.Debug("view activated")

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		s.readCommands(conn, b, log)
	}()

	for {
		select {
		case <-closed:
			log.Debug("view closed")
			return
		case st := <-updates:
			msg, err := s.liveMessage(st)
			if err != nil {
				log.Error("render live view", zap.Error(err))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug("write live view", zap.Error(err))
				return
			}
		}
	}
}

func (s *Server) readCommands(conn *websocket.Conn, b *binding.Binding, log *zap.Logger) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd liveCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			log.Warn("bad live command", zap.Error(err))
			continue
		}

		svc := b.View().Service
		switch cmd.Type {
		case "get_post":
			go func(id int) {
				if _, ok, err := svc.GetPost(id); err != nil {
					log.Error("get post", zap.Int("id", id), zap.Error(err))
				} else if !ok {
					log.Info("post not found", zap.Int("id", id))
				}
			}(cmd.ID)
		case "get_posts":
			go func() {
				if _, err := svc.GetPosts(); err != nil {
					log.Error("load posts", zap.Error(err))
				}
			}()
		default:
			log.Warn("unknown live command", zap.String("type", cmd.Type))
		}
	}
}

func (s *Server) liveMessage(st blog.State) (liveMessage, error) {
	data := map[string]any{}
	addState(data, st)
	html, err := s.renderPosts(data)
	if err != nil {
		return liveMessage{}, err
	}
	return liveMessage{Type: "state", Count: st.Count, Posts: st.Posts, HTML: html}, nil
}

// offerLatest puts st in ch, replacing any value not yet taken. ch must have
// capacity 1 and a single producer.
func offerLatest(ch chan blog.State, st blog.State) {
	for {
		select {
		case ch <- st:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
