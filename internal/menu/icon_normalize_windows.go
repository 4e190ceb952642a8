//go:build windows

package menu

import "github.com/example/googleit/internal/logging"

// The Windows tray only accepts ICO data.
func platformNormalizeIcon(data []byte) []byte {
	ico, err := pngToICO(data)
	if err != nil {
		logging.Debugf("convert tray icon to ico: %v", err)
		return nil
	}
	return ico
}
