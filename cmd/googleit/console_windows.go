//go:build windows

package main

import (
	"os"

	"golang.org/x/sys/windows"
)

func init() {
	if runsTray(os.Args[1:]) && os.Getenv("GOOGLEIT_SHOW_CONSOLE") == "" {
		hideConsoleWindow()
	}
}

func hideConsoleWindow() {
	kernel32 := windows.NewLazySystemDLL("kernel32.dll")
	user32 := windows.NewLazySystemDLL("user32.dll")

	hwnd, _, _ := kernel32.NewProc("GetConsoleWindow").Call()
	if hwnd == 0 {
		return
	}

	const swHide = 0
	user32.NewProc("ShowWindow").Call(hwnd, swHide)
	kernel32.NewProc("FreeConsole").Call()
}
