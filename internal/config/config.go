package config

import (
	"net"
	"os"
	"strings"
	"time"
)

type Config struct {
	PublicAddr   string
	SiteBaseURL  string
	SiteTitle    string
	DataDir      string
	PostsSource  string
	FetchLatency time.Duration
	LogLevel     string
}

func Load() *Config {
	publicAddr := getEnv("PUBLIC_ADDR", ":8084")
	siteBaseURL := strings.TrimRight(getEnv("SITE_BASE_URL", ""), "/")
	if siteBaseURL == "" {
		siteBaseURL = baseURLFromAddr(publicAddr)
	}

	return &Config{
		PublicAddr:   publicAddr,
		SiteBaseURL:  siteBaseURL,
		SiteTitle:    getEnv("SITE_TITLE", "Posts"),
		DataDir:      getEnv("DATA_DIR", "data"),
		PostsSource:  strings.TrimSpace(getEnv("POSTS_SOURCE", "")),
		FetchLatency: getDuration("FETCH_LATENCY", time.Second),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}
}

func baseURLFromAddr(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ""
	}
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return strings.TrimRight(addr, "/")
	}

	host := ""
	port := ""
	if strings.HasPrefix(addr, ":") {
		host = "localhost"
		port = strings.TrimPrefix(addr, ":")
	} else {
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			port = p
		} else {
			host = addr
		}
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	if port != "" {
		return "http://" + host + ":" + port
	}
	return "http://" + host
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getDuration falls back when the variable is unset, unparsable or negative.
func getDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
