// Package clip moves URLs between googleit and the system clipboard.
package clip

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/example/googleit/internal/host"
	"github.com/example/googleit/internal/logging"
)

const maxURLLength = 2048

var (
	clipboardReadAll  = clipboard.ReadAll
	clipboardWriteAll = clipboard.WriteAll
)

// ExtractURLs returns the http(s) URLs among the whitespace-separated
// tokens of text, in order.
func ExtractURLs(text string) []string {
	var out []string
	for _, token := range strings.Fields(text) {
		if len(token) > maxURLLength {
			continue
		}
		if !strings.HasPrefix(token, "http://") && !strings.HasPrefix(token, "https://") {
			continue
		}
		parsed, err := url.Parse(token)
		if err != nil || parsed.Host == "" {
			continue
		}
		out = append(out, token)
	}
	return out
}

// ReadURLs returns the URLs currently on the clipboard.
func ReadURLs() ([]string, error) {
	text, err := clipboardReadAll()
	if err != nil {
		return nil, fmt.Errorf("read clipboard: %w", err)
	}
	urls := ExtractURLs(text)
	logging.Debugf("clipboard held %d urls", len(urls))
	return urls, nil
}

// CopyLauncher copies each launched URL to the clipboard before handing it
// to Next. A nil Next only copies.
type CopyLauncher struct {
	Next host.Launcher
}

// Launch implements host.Launcher.
func (c CopyLauncher) Launch(ctx context.Context, rawURL string) error {
	if err := clipboardWriteAll(rawURL); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	if c.Next == nil {
		return nil
	}
	return c.Next.Launch(ctx, rawURL)
}
