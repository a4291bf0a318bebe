package common

import (
	"fmt"

	"github.com/samber/do/v2"
	"go.uber.org/zap"
)

// NewLogger builds the process-wide structured logger. Echo's request
// middleware keeps its own access-log format (see EchoService); this
// logger covers everything below the HTTP layer: duel lifecycle, retries,
// dust accounting, commitment publication.
func NewLogger(i do.Injector) (*zap.Logger, error) {
	env := do.MustInvokeNamed[string](i, "network-tag")

	var (
		logger *zap.Logger
		err    error
	)

	if env == "mainnet" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger, nil
}
