package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/example/googleit/internal/host"
	"github.com/example/googleit/internal/logging"
)

var errEmptyURL = errors.New("empty URL")

// BrowserLauncher opens URLs with the platform's default browser.
type BrowserLauncher struct{}

// Launch validates the URL before deferring to the platform-specific
// launcher.
func (BrowserLauncher) Launch(_ context.Context, raw string) error {
	if err := validateURL(raw); err != nil {
		return err
	}
	logging.Debugf("opening %s", logging.SanitizeURL(raw))
	if err := launchURL(raw); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}

func validateURL(raw string) error {
	if raw == "" {
		return errEmptyURL
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	return nil
}

// PrintLauncher writes URLs to W, one per line, instead of opening them.
type PrintLauncher struct {
	W io.Writer
}

// Launch implements host.Launcher.
func (p PrintLauncher) Launch(_ context.Context, raw string) error {
	if err := validateURL(raw); err != nil {
		return err
	}
	_, err := fmt.Fprintln(p.W, raw)
	return err
}

var (
	_ host.Launcher = BrowserLauncher{}
	_ host.Launcher = PrintLauncher{}
)
