package web

import (
	"html/template"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"

	"postview/internal/blog"
	"postview/internal/config"
)

type Server struct {
	Config  *config.Config
	Service *blog.Service
	Log     *zap.Logger

	markdown goldmark.Markdown
	upgrader websocket.Upgrader
	nextView atomic.Uint64

	templateMu    sync.Mutex
	templateCache map[string]*template.Template
}

func NewServer(cfg *config.Config, svc *blog.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Config:   cfg,
		Service:  svc,
		Log:      logger,
		markdown: goldmark.New(goldmark.WithExtensions(extension.Strikethrough)),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		templateCache: make(map[string]*template.Template),
	}
}
