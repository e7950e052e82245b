//go:build !windows

package main

// hideAndDetachConsoleForGUI is a no-op where GUI processes have no console.
func hideAndDetachConsoleForGUI() {}
