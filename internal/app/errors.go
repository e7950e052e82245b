package app

import "errors"

var (
	ErrNoLogs       = errors.New("no logs to export")
	ErrExportFailed = errors.New("export failed")
	ErrUnknownStore = errors.New("unknown state store")
)
