package tracker

import tea "github.com/charmbracelet/bubbletea"

// Sender receives poller messages; satisfied by *tea.Program.
type Sender interface {
	Send(msg tea.Msg)
}

// StatusMsg carries one /status poll result. Seq increases monotonically so
// the receiving model can drop anything older than the last applied poll.
type StatusMsg struct {
	Status      Status
	Seq         uint64
	ModeChanged bool // reported mode differs from the previous poll
	Conn        ConnectionStatus
}

// StatusPollErrorMsg reports a failed /status poll. The poller keeps
// running; the UI only degrades the connection indicator.
type StatusPollErrorMsg struct {
	Err  error
	Conn ConnectionStatus
}

// StateMsg carries one /api/state poll result.
type StateMsg struct {
	State State
	Seq   uint64
}

// ScanCompleteMsg delivers the finished angular scan.
type ScanCompleteMsg struct {
	Result ScanResult
}

// CalibrationPhaseDoneMsg fires when the tracker mode leaves
// calibrate_min/calibrate_max, ending the blocking wait for one phase.
type CalibrationPhaseDoneMsg struct {
	Mode Mode // mode the tracker settled in
}
