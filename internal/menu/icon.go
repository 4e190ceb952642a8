package menu

import (
	"embed"
	"path"
	"strings"
)

//go:embed assets/*.png
var assets embed.FS

const defaultIconName = "google-icon.png"

// resolveIcon maps a chrome://<ref>/content/icons/<name> resource onto the
// embedded assets. Unknown resources fall back to the default icon.
func resolveIcon(uri string) []byte {
	name := defaultIconName
	if idx := strings.Index(uri, "/content/icons/"); idx >= 0 {
		name = path.Base(uri[idx+len("/content/icons/"):])
	}
	data, err := assets.ReadFile("assets/" + name)
	if err != nil {
		data, _ = assets.ReadFile("assets/" + defaultIconName)
	}
	return data
}

func cloneIcon(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp
}

// trayIcon returns the icon in the format the platform tray expects.
func trayIcon(uri string) []byte {
	raw := resolveIcon(uri)
	normalized := platformNormalizeIcon(raw)
	if len(normalized) == 0 {
		return cloneIcon(raw)
	}
	return normalized
}
