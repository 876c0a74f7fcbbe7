//go:build linux

package main

import (
	"log/slog"

	"github.com/1broseidon/wmstack/internal/platform"
)

func openDisplay(logger *slog.Logger) (platform.Backend, platform.EventSource, func(), error) {
	backend, err := platform.NewLinuxBackendFromDisplay(logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return backend, backend, backend.Disconnect, nil
}
