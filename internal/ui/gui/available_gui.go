//go:build !headless

package gui

// Available reports whether this build carries the desktop front end.
func Available() bool {
	return true
}
