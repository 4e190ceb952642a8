//go:build !cgo && !windows
// +build !cgo,!windows

package menu

import (
	"context"
	"errors"
)

type unavailableTray struct{}

func newTrayController(trayActions) trayController {
	return unavailableTray{}
}

// Run reports that the tray cannot be shown in this build.
func (unavailableTray) Run(context.Context, <-chan UpdatePayload) error {
	return errors.New("system tray is unavailable without cgo support")
}
