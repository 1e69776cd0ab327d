package script

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lootscout/lootscout/internal/provider"
	domain "github.com/lootscout/lootscout/pkg/types"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scraper.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestFetchParsesOutput(t *testing.T) {
	t.Parallel()

	cmd := writeScript(t, `echo '[{"id":"dkoldies-1","title":"Pokemon Emerald GBA","description":"Authentic cartridge","price":"$89.99","time":"Just now","image":"https://images.example.com/emerald.jpg","condition":"Used","url":"https://www.dkoldies.com/pokemon-emerald","platform":"game boy"}]'`)

	p := New(domain.SourceDKOldies, cmd, nil, discardLogger())
	assert.Equal(t, domain.SourceDKOldies, p.Name())

	got, err := p.Fetch(context.Background(), provider.Query{Text: "pokemon", MaxResults: 5})
	require.NoError(t, err)
	require.Len(t, got, 1)

	l := got[0]
	assert.Equal(t, "dkoldies-1", l.ID)
	assert.Equal(t, "Pokemon Emerald GBA", l.Title)
	assert.Equal(t, "$89.99", l.Price)
	assert.Equal(t, domain.SourceDKOldies, l.Source)
	assert.Equal(t, "game boy", l.Platform)
}

func TestFetchPassesFlags(t *testing.T) {
	t.Parallel()

	// Echo the arguments back as a title so the test can observe them.
	cmd := writeScript(t, `printf '[{"title":"%s"}]' "$*"`)

	p := New(domain.SourceDKOldies, cmd, nil, discardLogger())
	got, err := p.Fetch(context.Background(), provider.Query{Text: "zelda", Platform: "n64", MaxResults: 8})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "--query zelda --platform n64 --max_results 8", got[0].Title)
}

func TestFetchFillsDefaults(t *testing.T) {
	t.Parallel()

	cmd := writeScript(t, `echo '[{"title":"Banjo Kazooie N64 Loose","price":"$34.99"}]'`)

	p := New(domain.SourceDKOldies, cmd, nil, discardLogger())
	got, err := p.Fetch(context.Background(), provider.Query{Text: "banjo"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	l := got[0]
	assert.Equal(t, "dkoldies-banjo-kazooie-n64-loose", l.ID)
	assert.Equal(t, domain.TimeFallback, l.Time)
	assert.Equal(t, domain.PlaceholderImage, l.Image)
	assert.Equal(t, "n64", l.Platform)
}

func TestFetchStderrDoesNotPolluteResults(t *testing.T) {
	t.Parallel()

	cmd := writeScript(t, `echo "Found 1 products" >&2
echo '[{"title":"Halo Xbox"}]'`)

	p := New(domain.SourceDKOldies, cmd, nil, discardLogger())
	got, err := p.Fetch(context.Background(), provider.Query{Text: "halo"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Halo Xbox", got[0].Title)
}

func TestFetchScriptFailure(t *testing.T) {
	t.Parallel()

	cmd := writeScript(t, `echo "boom" >&2
exit 3`)

	p := New(domain.SourceDKOldies, cmd, nil, discardLogger())
	_, err := p.Fetch(context.Background(), provider.Query{Text: "halo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running scraper")
}

func TestFetchMalformedOutput(t *testing.T) {
	t.Parallel()

	cmd := writeScript(t, `echo 'not json'`)

	p := New(domain.SourceDKOldies, cmd, nil, discardLogger())
	_, err := p.Fetch(context.Background(), provider.Query{Text: "halo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing scraper output")
}

func TestFetchEmptyOutput(t *testing.T) {
	t.Parallel()

	cmd := writeScript(t, `true`)

	p := New(domain.SourceDKOldies, cmd, nil, discardLogger())
	_, err := p.Fetch(context.Background(), provider.Query{Text: "halo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "produced no output")
}

func TestFetchContextTimeoutKillsProcess(t *testing.T) {
	t.Parallel()

	cmd := writeScript(t, `sleep 10
echo '[]'`)

	p := New(domain.SourceDKOldies, cmd, nil, discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := p.Fetch(ctx, provider.Query{Text: "halo"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}
