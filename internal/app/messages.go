package app

import "time"

// TickMsg triggers a frame update.
type TickMsg time.Time

// CommandResultMsg reports the outcome of an async tracker command.
type CommandResultMsg struct {
	Op  string
	Err error
}

// ChartWrittenMsg reports the outcome of rewriting the scan chart file.
type ChartWrittenMsg struct {
	Err error
}
