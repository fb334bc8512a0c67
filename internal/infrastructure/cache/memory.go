package cache

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"sync"
	"time"
)

// Memory is an in-process implementation of the same store operations the
// Redis wrapper provides. It exists for tests and for running the service
// without a Redis instance; expiry honors an injectable clock.
type Memory struct {
	mu       sync.Mutex
	values   map[string]memoryEntry
	rankings map[string][]rankedMember
	now      func() time.Time
}

type memoryEntry struct {
	value    string
	expireAt time.Time // zero means no expiry
}

type rankedMember struct {
	member string
	score  float64
}

func NewMemory() *Memory {
	return &Memory{
		values:   make(map[string]memoryEntry),
		rankings: make(map[string][]rankedMember),
		now:      time.Now,
	}
}

// SetClock replaces the time source. Test hook.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *Memory) live(e memoryEntry) bool {
	return e.expireAt.IsZero() || e.expireAt.After(m.now())
}

func (m *Memory) IncrWindow(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.values[key]
	if !ok || !m.live(e) {
		m.values[key] = memoryEntry{value: "1", expireAt: m.now().Add(window)}
		return 1, window, nil
	}

	count := parseInt(e.value) + 1
	e.value = formatInt(count)
	m.values[key] = e
	return count, e.expireAt.Sub(m.now()), nil
}

func (m *Memory) SetTTL(_ context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expireAt = m.now().Add(ttl)
	}
	m.values[key] = e
	return nil
}

func (m *Memory) RemainingTTL(_ context.Context, key string) (time.Duration, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.values[key]
	if !ok || !m.live(e) || e.expireAt.IsZero() {
		return 0, false, nil
	}
	return e.expireAt.Sub(m.now()), true, nil
}

func (m *Memory) GetJSON(_ context.Context, key string, out any) (bool, error) {
	m.mu.Lock()
	e, ok := m.values[key]
	live := ok && m.live(e)
	m.mu.Unlock()

	if !live {
		return false, nil
	}
	if err := json.Unmarshal([]byte(e.value), out); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Memory) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return m.SetTTL(context.Background(), key, string(b), ttl)
}

func (m *Memory) Current(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.values[key]
	if !ok || !m.live(e) {
		return 0, nil
	}
	return parseInt(e.value), nil
}

func (m *Memory) Bump(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.values[key]
	var v int64
	if ok && m.live(e) {
		v = parseInt(e.value)
	}
	v++
	m.values[key] = memoryEntry{value: formatInt(v), expireAt: e.expireAt}
	return v, nil
}

func (m *Memory) AddScore(_ context.Context, key string, member string, score float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ms := m.rankings[key]
	for i := range ms {
		if ms[i].member == member {
			ms[i].score = score
			return nil
		}
	}
	m.rankings[key] = append(ms, rankedMember{member: member, score: score})
	return nil
}

func (m *Memory) TopMembers(_ context.Context, key string, n int64) ([]string, error) {
	m.mu.Lock()
	ms := make([]rankedMember, len(m.rankings[key]))
	copy(ms, m.rankings[key])
	m.mu.Unlock()

	sort.SliceStable(ms, func(i, j int) bool { return ms[i].score > ms[j].score })

	if n > 0 && int64(len(ms)) > n {
		ms = ms[:n]
	}
	out := make([]string, 0, len(ms))
	for _, it := range ms {
		out = append(out, it.member)
	}
	return out, nil
}

func parseInt(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
