package sync

import "sync"

// SyncStats is a snapshot of the synchronization state for the status
// endpoint. Serial, Groups and Rules describe the last applied range
// message; they survive until the next run starts.
type SyncStats struct {
	IsRunning bool   `json:"isRunning"`
	Source    string `json:"source"`
	Serial    string `json:"serial"`
	Groups    int    `json:"groups"`
	Rules     int    `json:"rules"`
	LastError string `json:"lastError,omitempty"`
}

// syncState guards the mutable stats behind its own lock so snapshots can
// be handed out by value.
type syncState struct {
	mu    sync.RWMutex
	stats SyncStats
}

var state = &syncState{}

// GetStats returns a copy of the current sync stats
func GetStats() SyncStats {
	state.mu.RLock()
	defer state.mu.RUnlock()

	return state.stats
}

// start marks a run as in progress against the given source
func (s *syncState) start(source string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats = SyncStats{IsRunning: true, Source: source}
}

// progress records what the run has applied so far
func (s *syncState) progress(serial string, groups, rules int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.Serial = serial
	s.stats.Groups = groups
	s.stats.Rules = rules
}

// fail records the error of the current run
func (s *syncState) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.LastError = err.Error()
}

// end marks the run as finished, keeping its outcome visible
func (s *syncState) end() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.IsRunning = false
}
