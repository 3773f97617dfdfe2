package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/verse/internal/catalog"
	"github.com/MrSnakeDoc/verse/internal/domain"
	"github.com/MrSnakeDoc/verse/internal/logger"
	"github.com/MrSnakeDoc/verse/internal/sources/messages"
)

// MessagesReloader handles periodic reloading of the message catalogue
type MessagesReloader struct {
	loader        *messages.Loader
	catalog       *catalog.Catalog
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	manualTrigger chan struct{}
}

// NewMessagesReloader creates a new messages reloader
func NewMessagesReloader(
	messagesFile string,
	cat *catalog.Catalog,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *MessagesReloader {
	return &MessagesReloader{
		loader:        messages.NewLoader(messagesFile),
		catalog:       cat,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the catalogue once and then reloads it on every tick or
// manual trigger until Stop is called or ctx is done.
func (mr *MessagesReloader) Start(ctx context.Context) error {
	// Load immediately on start
	if err := mr.Reload(ctx); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	// Start periodic reload
	ticker := time.NewTicker(mr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := mr.Reload(ctx); err != nil {
					mr.logger.Error("failed to reload messages, keeping previous catalogue",
						logger.Error(err))
				}
			case <-mr.manualTrigger:
				mr.logger.Info("manual reload triggered")
				if err := mr.Reload(ctx); err != nil {
					mr.logger.Error("failed to reload messages, keeping previous catalogue",
						logger.Error(err))
				}
			case <-mr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader. It is safe to call more than once.
func (mr *MessagesReloader) Stop() {
	mr.stopOnce.Do(func() { close(mr.stopCh) })
}

// Reload reads the messages file and swaps the catalogue.
// On error the catalogue is left untouched.
func (mr *MessagesReloader) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mr.logger.Info("reloading messages",
		logger.String("file", mr.loader.Path()))

	file, err := mr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load messages: %w", err)
	}

	mr.catalog.Replace(messages.ToTexts(file, domain.DefaultTexts()), mr.loader.Path())

	mr.logger.Info("messages reloaded",
		logger.String("file", mr.loader.Path()),
		logger.Int("reloads", mr.catalog.Reloads()))

	return nil
}
