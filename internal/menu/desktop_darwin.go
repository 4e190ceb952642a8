//go:build darwin

package menu

import (
	"context"
	"os/exec"
)

func launchURL(raw string) error {
	return exec.Command("open", raw).Start()
}

func showDialog(ctx context.Context, title, message string) error {
	script := "display dialog " + appleScriptString(message) +
		" with title " + appleScriptString(title) +
		` buttons {"OK"} default button "OK" with icon caution`
	return exec.CommandContext(ctx, "osascript", "-e", script).Run()
}
