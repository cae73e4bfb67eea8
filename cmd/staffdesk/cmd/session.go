package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mealpoint/staffdesk/credstore/bbolt"
	"github.com/mealpoint/staffdesk/session"
)

var opTimeout time.Duration

func init() {
	rootCmd.PersistentFlags().DurationVar(&opTimeout, "op-timeout",
		session.DefaultOpTimeout, "Timeout for each session lifecycle operation")
}

// openSession builds the process-wide session over the on-disk credential
// store. The returned cleanup closes the store.
func openSession() (*session.Session, func(), error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	store, err := bbolt.NewStoreFromFile(filepath.Join(dataDir, "credstore.db"), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open credential store: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	sess := session.New(session.Config{
		BackendURL: backendURL,
		Store:      store,
		Logger:     logger,
		OpTimeout:  opTimeout,
	})
	return sess, func() { store.Close() }, nil
}
