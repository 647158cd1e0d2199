// Package monitor records operational events (auth attempts, form
// submissions, admin actions) and keeps a bounded activity log for the
// dashboard. Events are buffered in memory and flushed to a Redis list
// in batches; without Redis the log stays purely in memory.
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abacreative/admin-services/pkg/logger"
)

const (
	// eventsKey is the Redis list holding flushed events, newest last.
	eventsKey = "monitor:events"

	// flushThreshold triggers an immediate flush once the buffer grows
	// this large.
	flushThreshold = 50

	// maxStoredEvents bounds the persisted log.
	maxStoredEvents = 1000
)

// Event is a single monitoring record.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details"`
	SessionID string         `json:"sessionId"`
}

// Stats summarizes the stored event log.
type Stats struct {
	TotalEvents     int        `json:"totalEvents"`
	Sessions        int        `json:"sessions"`
	ErrorCount      int        `json:"errorCount"`
	FormSubmissions int        `json:"formSubmissions"`
	AdminActions    int        `json:"adminActions"`
	LastActivity    *time.Time `json:"lastActivity"`
}

// Monitor buffers events for the current process session.
type Monitor struct {
	mu        sync.Mutex
	sessionID string
	buffer    []Event
	stored    []Event // in-memory log when Redis is unavailable
	client    *redis.Client
	now       func() time.Time
}

// New creates a monitor bound to the given Redis client. A nil client
// keeps the event log in memory only.
func New(client *redis.Client) *Monitor {
	return &Monitor{
		sessionID: generateSessionID(),
		client:    client,
		now:       time.Now,
	}
}

func generateSessionID() string {
	return fmt.Sprintf("session-%d-%09x", time.Now().UnixMilli(), rand.Int63n(1<<36))
}

// SessionID returns the identifier tagged onto every event from this
// process.
func (m *Monitor) SessionID() string {
	return m.sessionID
}

// LogEvent appends an event to the buffer, flushing when the buffer
// reaches the threshold.
func (m *Monitor) LogEvent(ctx context.Context, action string, details map[string]any) {
	m.mu.Lock()
	m.buffer = append(m.buffer, Event{
		Timestamp: m.now().UTC(),
		Action:    action,
		Details:   details,
		SessionID: m.sessionID,
	})
	full := len(m.buffer) >= flushThreshold
	m.mu.Unlock()

	if full {
		m.Flush(ctx)
	}
}

// LogAdminAction records an action performed in the back office.
func (m *Monitor) LogAdminAction(ctx context.Context, action, userID string, details map[string]any) {
	merged := map[string]any{"action": action, "userId": userID}
	for k, v := range details {
		merged[k] = v
	}
	m.LogEvent(ctx, "admin_action", merged)
}

// LogFormSubmission records a public form submission. Only field names
// are kept, never the submitted values.
func (m *Monitor) LogFormSubmission(ctx context.Context, formType string, fields []string) {
	hasEmail, hasPhone := false, false
	for _, f := range fields {
		switch f {
		case "email":
			hasEmail = true
		case "phone":
			hasPhone = true
		}
	}
	m.LogEvent(ctx, "form_submission", map[string]any{
		"formType": formType,
		"fields":   fields,
		"hasEmail": hasEmail,
		"hasPhone": hasPhone,
	})
}

// LogAuthEvent records a login, logout or failed login.
func (m *Monitor) LogAuthEvent(ctx context.Context, event, userID string) {
	m.LogEvent(ctx, "auth", map[string]any{"event": event, "userId": userID})
}

// Flush persists buffered events. On failure the events are returned
// to the buffer for the next attempt.
func (m *Monitor) Flush(ctx context.Context) {
	m.mu.Lock()
	if len(m.buffer) == 0 {
		m.mu.Unlock()
		return
	}
	batch := m.buffer
	m.buffer = nil
	m.mu.Unlock()

	if err := m.store(ctx, batch); err != nil {
		logger.Warnf("monitor: failed to flush %d events: %v", len(batch), err)
		m.mu.Lock()
		m.buffer = append(batch, m.buffer...)
		m.mu.Unlock()
	}
}

func (m *Monitor) store(ctx context.Context, batch []Event) error {
	if m.client == nil {
		m.mu.Lock()
		m.stored = append(m.stored, batch...)
		if len(m.stored) > maxStoredEvents {
			m.stored = m.stored[len(m.stored)-maxStoredEvents:]
		}
		m.mu.Unlock()
		return nil
	}

	vals := make([]interface{}, 0, len(batch))
	for _, ev := range batch {
		raw, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		vals = append(vals, raw)
	}
	pipe := m.client.TxPipeline()
	pipe.RPush(ctx, eventsKey, vals...)
	pipe.LTrim(ctx, eventsKey, -maxStoredEvents, -1)
	_, err := pipe.Exec(ctx)
	return err
}

func (m *Monitor) load(ctx context.Context) ([]Event, error) {
	if m.client == nil {
		m.mu.Lock()
		out := make([]Event, len(m.stored))
		copy(out, m.stored)
		m.mu.Unlock()
		return out, nil
	}

	raws, err := m.client.LRange(ctx, eventsKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	events := make([]Event, 0, len(raws))
	for _, raw := range raws {
		var ev Event
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// Stats flushes pending events and summarizes the stored log.
func (m *Monitor) Stats(ctx context.Context) (*Stats, error) {
	m.Flush(ctx)
	events, err := m.load(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalEvents: len(events)}
	sessions := make(map[string]struct{})
	for _, ev := range events {
		sessions[ev.SessionID] = struct{}{}
		switch ev.Action {
		case "error":
			stats.ErrorCount++
		case "form_submission":
			stats.FormSubmissions++
		case "admin_action":
			stats.AdminActions++
		}
	}
	stats.Sessions = len(sessions)
	if len(events) > 0 {
		last := events[len(events)-1].Timestamp
		stats.LastActivity = &last
	}
	return stats, nil
}

// RecentActivity flushes pending events and returns the newest entries,
// most recent first.
func (m *Monitor) RecentActivity(ctx context.Context, limit int) ([]Event, error) {
	m.Flush(ctx)
	events, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	if len(events) > limit {
		events = events[len(events)-limit:]
	}
	out := make([]Event, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		out = append(out, events[i])
	}
	return out, nil
}

// ClearLogs drops the stored event log and records that it was cleared.
func (m *Monitor) ClearLogs(ctx context.Context) error {
	m.mu.Lock()
	m.buffer = nil
	m.stored = nil
	m.mu.Unlock()

	if m.client != nil {
		if err := m.client.Del(ctx, eventsKey).Err(); err != nil {
			return err
		}
	}
	m.LogEvent(ctx, "system", map[string]any{"type": "logs_cleared"})
	return nil
}
