package pipeline

import (
	"sync"
	"sync/atomic"
	"time"
)

// Stats counts progress at both ends of the pipeline. Each counter has a
// single writer.
type Stats struct {
	sessionID       string
	startedAt       time.Time
	framesSent      uint64
	framesDelivered uint64
	mu              sync.Mutex
	lastErr         error
}

func NewStats(sessionID string) *Stats {
	return &Stats{sessionID: sessionID, startedAt: time.Now()}
}

type StatsSnapshot struct {
	SessionID       string    `json:"session_id"`
	StartedAt       time.Time `json:"started_at"`
	FramesSent      uint64    `json:"frames_sent"`
	FramesDelivered uint64    `json:"frames_delivered"`
	LastError       string    `json:"last_error,omitempty"`
}

func (s *Stats) frameSent() { atomic.AddUint64(&s.framesSent, 1) }

func (s *Stats) frameDelivered() uint64 { return atomic.AddUint64(&s.framesDelivered, 1) }

func (s *Stats) recordErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

func (s *Stats) Snapshot() StatsSnapshot {
	snap := StatsSnapshot{
		SessionID:       s.sessionID,
		StartedAt:       s.startedAt,
		FramesSent:      atomic.LoadUint64(&s.framesSent),
		FramesDelivered: atomic.LoadUint64(&s.framesDelivered),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastErr != nil {
		snap.LastError = s.lastErr.Error()
	}
	return snap
}
