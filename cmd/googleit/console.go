package main

import "strings"

// valueFlags are the global flags whose value may follow as a separate
// argument.
var valueFlags = map[string]bool{"--config": true, "--db": true}

// runsTray reports whether args select the tray, which is also the default
// when no subcommand is given.
func runsTray(args []string) bool {
	for idx := 0; idx < len(args); idx++ {
		arg := args[idx]
		if arg == "--" {
			return idx+1 >= len(args) || strings.EqualFold(args[idx+1], "tray")
		}
		if strings.HasPrefix(arg, "-") {
			if valueFlags[arg] {
				idx++
			}
			continue
		}
		return strings.EqualFold(arg, "tray")
	}
	return true
}
