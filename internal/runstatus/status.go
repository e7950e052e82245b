package runstatus

import "strings"

const (
	Locating = "Locating"
	Waiting  = "Waiting for fix file"
	Stopped  = "Stopped"
)

const (
	KeyLocating = "locating"
	KeyWaiting  = "waiting for fix file"
	KeyStopped  = "stopped"
)

func Key(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}
