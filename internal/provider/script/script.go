// Package script implements an out-of-process listing provider. It runs
// an external scraper executable and reads a JSON listing array from its
// stdout. The contract is strict: stdout carries exactly one JSON array,
// anything diagnostic goes to stderr.
package script

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/lootscout/lootscout/internal/provider"
	domain "github.com/lootscout/lootscout/pkg/types"
)

// Provider wraps a scraper executable as a listing source.
type Provider struct {
	source  domain.Source
	command string
	args    []string
	log     *slog.Logger
}

var _ provider.Provider = (*Provider)(nil)

// New creates a subprocess provider. The query, platform and result
// limit are appended to args as --query/--platform/--max_results flags.
func New(source domain.Source, command string, args []string, log *slog.Logger) *Provider {
	return &Provider{
		source:  source,
		command: command,
		args:    args,
		log:     log.With(slog.String("source", string(source))),
	}
}

// Name implements provider.Provider.
func (p *Provider) Name() domain.Source {
	return p.source
}

// scriptListing is the stdout wire shape. The scripts emit display-ready
// strings in the same field layout as the canonical listing.
type scriptListing struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Time        string `json:"time"`
	Image       string `json:"image"`
	Condition   string `json:"condition"`
	URL         string `json:"url"`
	Platform    string `json:"platform"`
}

// Fetch implements provider.Provider by running the executable to
// completion. Cancelling ctx kills the subprocess.
func (p *Provider) Fetch(ctx context.Context, q provider.Query) ([]domain.Listing, error) {
	args := make([]string, 0, len(p.args)+6)
	args = append(args, p.args...)
	args = append(args, "--query", q.Text)
	if q.Platform != "" {
		args = append(args, "--platform", q.Platform)
	}
	if q.MaxResults > 0 {
		args = append(args, "--max_results", strconv.Itoa(q.MaxResults))
	}

	cmd := exec.CommandContext(ctx, p.command, args...)
	// Without this, Wait blocks on stdout/stderr pipes inherited by
	// grandchildren even after the killed subprocess exits.
	cmd.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		p.log.Debug("scraper diagnostics", slog.String("stderr", msg))
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("running scraper %s: %w", p.command, ctx.Err())
		}
		return nil, fmt.Errorf("running scraper %s: %w", p.command, err)
	}

	out := bytes.TrimSpace(stdout.Bytes())
	if len(out) == 0 {
		return nil, fmt.Errorf("scraper %s produced no output", p.command)
	}

	var raw []scriptListing
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, fmt.Errorf("parsing scraper output: %w", err)
	}

	listings := make([]domain.Listing, 0, len(raw))
	for _, r := range raw {
		listings = append(listings, p.toListing(r))
	}
	return listings, nil
}

func (p *Provider) toListing(r scriptListing) domain.Listing {
	l := domain.Listing{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Source:      p.source,
		Time:        r.Time,
		Image:       r.Image,
		Condition:   r.Condition,
		URL:         r.URL,
		Platform:    r.Platform,
	}
	if l.ID == "" {
		l.ID = fmt.Sprintf("%s-%s", p.source, strings.ToLower(strings.ReplaceAll(r.Title, " ", "-")))
	}
	if l.Time == "" {
		l.Time = domain.TimeFallback
	}
	if l.Image == "" {
		l.Image = domain.PlaceholderImage
	}
	if l.Platform == "" {
		l.Platform = domain.InferPlatform(l.Title)
	}
	return l
}
