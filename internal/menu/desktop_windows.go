//go:build windows

package menu

import (
	"context"
	"os/exec"
)

func launchURL(raw string) error {
	return exec.Command("rundll32", "url.dll,FileProtocolHandler", raw).Start()
}

func showDialog(ctx context.Context, title, message string) error {
	script := "Add-Type -AssemblyName PresentationFramework; [System.Windows.MessageBox]::Show(" +
		powerShellString(message) + ", " + powerShellString(title) + ") | Out-Null"
	return exec.CommandContext(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", script).Run()
}
