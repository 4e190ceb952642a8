//go:build !windows && !darwin

package menu

import (
	"context"
	"os/exec"

	"github.com/example/googleit/internal/logging"
)

func launchURL(raw string) error {
	return exec.Command("xdg-open", raw).Start()
}

// showDialog prefers a blocking zenity or kdialog box and falls back to a
// desktop notification.
func showDialog(ctx context.Context, title, message string) error {
	if path, err := exec.LookPath("zenity"); err == nil {
		return exec.CommandContext(ctx, path, "--info", "--title="+title, "--text="+message, "--no-markup").Run()
	}
	if path, err := exec.LookPath("kdialog"); err == nil {
		return exec.CommandContext(ctx, path, "--title", title, "--msgbox", message).Run()
	}
	if path, err := exec.LookPath("notify-send"); err == nil {
		return exec.CommandContext(ctx, path, title, message).Run()
	}
	logging.Debugf("no dialog utility found; alert %q only logged", title)
	return nil
}
