package progress

import (
	"sync"
	"time"
	"trainee_portal_backend/pkg/debounce"
)

// Manager 按学员 slug 维护独立的 Session，学员之间互不影响
type Manager struct {
	opts     Options
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(opts Options) *Manager {
	if opts.TiePolicy == "" {
		opts.TiePolicy = TieRemoteWins
	}
	if opts.Clock == nil {
		opts.Clock = debounce.RealClock()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = debounce.New(opts.Clock, time.Second)
	}
	return &Manager{opts: opts, sessions: make(map[string]*Session)}
}

// Session 返回学员的会话，不存在时创建
func (m *Manager) Session(slug, name string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[slug]
	if !ok {
		s = newSession(slug, name, &m.opts)
		m.sessions[slug] = s
	}
	return s
}

// FlushAll 立即推送所有待同步的变更，包括此前推送失败、已无计时器的会话；退出前调用
func (m *Manager) FlushAll() int {
	n := m.opts.Scheduler.FlushAll()

	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		if s.retryIfDirty() {
			n++
		}
	}
	return n
}
