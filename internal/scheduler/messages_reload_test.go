package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/verse/internal/catalog"
	"github.com/MrSnakeDoc/verse/internal/domain"
	"github.com/MrSnakeDoc/verse/internal/logger"
)

func writeMessages(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestMessagesReloader_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.yaml")
	writeMessages(t, path, "greeting: Hello\n")

	cat := catalog.New()
	mr := NewMessagesReloader(path, cat, logger.New("error", false), time.Hour, nil)

	require.NoError(t, mr.Reload(context.Background()))

	assert.Equal(t, "Hello", cat.Texts().Greeting)
	assert.Equal(t, domain.DefaultTexts().NotFound, cat.Texts().NotFound)
	assert.Equal(t, path, cat.Source())
}

func TestMessagesReloader_FailedReloadKeepsCatalogue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.yaml")
	writeMessages(t, path, "greeting: Hello\n")

	cat := catalog.New()
	mr := NewMessagesReloader(path, cat, logger.New("error", false), time.Hour, nil)
	require.NoError(t, mr.Reload(context.Background()))

	writeMessages(t, path, "greeting: [broken\n")
	assert.Error(t, mr.Reload(context.Background()))

	assert.Equal(t, "Hello", cat.Texts().Greeting)
	assert.Equal(t, 1, cat.Reloads())
}

func TestMessagesReloader_StartFailsOnMissingFile(t *testing.T) {
	cat := catalog.New()
	mr := NewMessagesReloader("/nonexistent/messages.yaml", cat, logger.New("error", false), time.Hour, nil)

	err := mr.Start(context.Background())
	assert.Error(t, err)
	assert.Equal(t, domain.DefaultTexts(), cat.Texts())
}

func TestMessagesReloader_ManualTrigger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.yaml")
	writeMessages(t, path, "greeting: first\n")

	cat := catalog.New()
	trigger := make(chan struct{}, 1)
	mr := NewMessagesReloader(path, cat, logger.New("error", false), time.Hour, trigger)

	require.NoError(t, mr.Start(context.Background()))
	defer mr.Stop()
	assert.Equal(t, "first", cat.Texts().Greeting)

	writeMessages(t, path, "greeting: second\n")
	trigger <- struct{}{}

	assert.Eventually(t, func() bool {
		return cat.Texts().Greeting == "second"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestMessagesReloader_Ticker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.yaml")
	writeMessages(t, path, "help: first\n")

	cat := catalog.New()
	mr := NewMessagesReloader(path, cat, logger.New("error", false), 20*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, mr.Start(ctx))

	writeMessages(t, path, "help: second\n")

	assert.Eventually(t, func() bool {
		return cat.Texts().Help == "second"
	}, 2*time.Second, 10*time.Millisecond)

	mr.Stop()
	mr.Stop()
}
