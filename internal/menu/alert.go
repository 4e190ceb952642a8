package menu

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/example/googleit/internal/host"
)

// DialogAlerter shows alerts in a native dialog and logs them.
type DialogAlerter struct{}

// Alert blocks until the dialog is dismissed.
func (DialogAlerter) Alert(ctx context.Context, title, message string) error {
	log.Printf("%s: %s", title, message)
	if err := showDialog(ctx, title, message); err != nil {
		return fmt.Errorf("show dialog: %w", err)
	}
	return nil
}

// WriterAlerter prints alerts as "title: message" lines.
type WriterAlerter struct {
	W io.Writer
}

// Alert implements host.Alerter.
func (w WriterAlerter) Alert(_ context.Context, title, message string) error {
	_, err := fmt.Fprintf(w.W, "%s: %s\n", title, message)
	return err
}

var (
	_ host.Alerter = DialogAlerter{}
	_ host.Alerter = WriterAlerter{}
)

func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func powerShellString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
