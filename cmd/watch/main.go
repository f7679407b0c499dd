// Command watch subscribes to a posts service and prints every state change
// as a table while it loads the requested posts.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"

	"postview/internal/binding"
	"postview/internal/blog"
	"postview/internal/config"
	"postview/internal/logging"
)

func main() {
	ids := flag.String("ids", "", "Comma separated post ids to fetch one by one")
	all := flag.Bool("all", true, "Load all posts through a view binding")
	flag.Parse()

	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	postIDs, err := parseIDs(*ids)
	if err != nil {
		logger.Fatal("parse -ids", zap.Error(err))
	}

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

	show := func(st blog.State) {
		if err := printState(os.Stdout, st); err != nil {
			logger.Warn("print state", zap.Error(err))
		}
	}

	var loaded <-chan struct{}
	if *all {
		b := binding.Activate(svc, binding.WithLogger(logger), binding.OnChange(show))
		defer b.Deactivate()
		loaded = b.Loaded()
	} else {
		unsubscribe := svc.Subscribe(show)
		defer unsubscribe()
	}

	var wg sync.WaitGroup
	for _, id := range postIDs {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			post, ok, err := svc.GetPost(id)
			switch {
			case err != nil:
				logger.Error("get post", zap.Int("id", id), zap.Error(err))
			case !ok:
				logger.Info("post not found", zap.Int("id", id))
			default:
				logger.Info("post fetched", zap.Int("id", post.ID), zap.String("title", post.Title))
			}
		}(id)
	}
	wg.Wait()
	if loaded != nil {
		<-loaded
	}
}

func parseIDs(input string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid post id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func printState(w io.Writer, st blog.State) error {
	count := "not loaded"
	if st.Loaded() {
		count = strconv.Itoa(st.Count)
	}
	fmt.Fprintf(w, "count: %s, posts in state: %d\n", count, len(st.Posts))

	rows := make([][]string, 0, len(st.Posts))
	for _, p := range st.Posts {
		rows = append(rows, []string{strconv.Itoa(p.ID), p.Title})
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Title")
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
