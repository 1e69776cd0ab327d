// Package main implements a mock eBay Finding API server for local
// development. It serves canned findItemsByKeywords responses from a JSON
// fixture so the server can run without real eBay credentials.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

type findingFixture struct {
	Items []json.RawMessage `json:"items"`
}

type itemTitle struct {
	Title []string `json:"title"`
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureFile := flag.String("fixture", "tools/mock-provider/testdata/finding_items.json", "path to finding items fixture")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fixture, err := loadFixture(*fixtureFile)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "items", len(fixture.Items))

	mux := http.NewServeMux()
	mux.Handle("GET /", findingHandler(logger, fixture))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock finding server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadFixture(path string) (*findingFixture, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var f findingFixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &f, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

func findingHandler(logger *slog.Logger, fixture *findingFixture) http.Handler {
	// Pre-parse titles for keyword filtering.
	type indexedItem struct {
		raw   json.RawMessage
		title string
	}
	items := make([]indexedItem, 0, len(fixture.Items))
	for _, raw := range fixture.Items {
		var t itemTitle
		//nolint:errcheck,gosec // fixture data is trusted; title extraction is best-effort
		json.Unmarshal(raw, &t)
		title := ""
		if len(t.Title) > 0 {
			title = strings.ToLower(t.Title[0])
		}
		items = append(items, indexedItem{raw: raw, title: title})
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keywords := strings.ToLower(r.URL.Query().Get("keywords"))
		limit := 16
		if v, err := strconv.Atoi(r.URL.Query().Get("paginationInput.entriesPerPage")); err == nil && v > 0 {
			limit = v
		}

		// Every keyword must appear somewhere in the title. The client
		// appends a "video game" suffix, which the fixture titles carry.
		var matched []json.RawMessage
		for _, item := range items {
			if matchesKeywords(item.title, keywords) {
				matched = append(matched, item.raw)
			}
			if len(matched) == limit {
				break
			}
		}

		resp := map[string]any{
			"findItemsByKeywordsResponse": []map[string]any{{
				"searchResult": []map[string]any{{
					"@count": strconv.Itoa(len(matched)),
					"item":   matched,
				}},
			}},
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(resp)
		logger.Info("served search", "keywords", keywords, "matched", len(matched))
	})
}

func matchesKeywords(title, keywords string) bool {
	for _, word := range strings.Fields(keywords) {
		if !strings.Contains(title, word) {
			return false
		}
	}
	return true
}
