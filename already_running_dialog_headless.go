//go:build headless

package main

// showAlreadyRunningDialog is unreachable in headless builds, which report
// the running instance on stderr instead.
func showAlreadyRunningDialog() {}
