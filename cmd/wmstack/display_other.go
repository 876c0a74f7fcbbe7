//go:build !linux

package main

import (
	"errors"
	"log/slog"

	"github.com/1broseidon/wmstack/internal/platform"
)

func openDisplay(*slog.Logger) (platform.Backend, platform.EventSource, func(), error) {
	return nil, nil, nil, errors.New("the daemon requires an X11 display on linux")
}
