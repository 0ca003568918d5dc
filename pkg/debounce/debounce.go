// Package debounce 按 key 合并延迟任务：同一 key 的新任务会取消并重启计时，
// 只有最后一次调度的任务会执行
package debounce

import (
	"sync"
	"time"
)

type Timer interface {
	Stop() bool
}

type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock 基于 time 包的系统时钟
func RealClock() Clock { return realClock{} }

type entry struct {
	timer Timer
	fn    func()
	gen   uint64
}

type Scheduler struct {
	clock   Clock
	delay   time.Duration
	mu      sync.Mutex
	pending map[string]*entry
	gen     map[string]uint64
}

func New(clock Clock, delay time.Duration) *Scheduler {
	if clock == nil {
		clock = RealClock()
	}
	return &Scheduler{
		clock:   clock,
		delay:   delay,
		pending: make(map[string]*entry),
		gen:     make(map[string]uint64),
	}
}

func (s *Scheduler) Delay() time.Duration { return s.delay }

// Schedule 取消 key 上尚未执行的任务，并在 delay 后执行 fn
func (s *Scheduler) Schedule(key string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.invalidateLocked(key)
	gen := s.gen[key]
	e := &entry{fn: fn, gen: gen}
	e.timer = s.clock.AfterFunc(s.delay, func() { s.fire(key, gen) })
	s.pending[key] = e
}

// Cancel 使 key 上待执行的任务失效；计时器已触发但尚未拿到锁的任务也不会再执行
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invalidateLocked(key)
}

func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[key]
	return ok
}

// Flush 立即执行 key 上待执行的任务，用于优雅退出
func (s *Scheduler) Flush(key string) bool {
	s.mu.Lock()
	e, ok := s.pending[key]
	if ok {
		s.invalidateLocked(key)
	}
	s.mu.Unlock()

	if ok {
		e.fn()
	}
	return ok
}

func (s *Scheduler) FlushAll() int {
	s.mu.Lock()
	keys := make([]string, 0, len(s.pending))
	for k := range s.pending {
		keys = append(keys, k)
	}
	s.mu.Unlock()

	n := 0
	for _, k := range keys {
		if s.Flush(k) {
			n++
		}
	}
	return n
}

func (s *Scheduler) invalidateLocked(key string) bool {
	s.gen[key]++
	e, ok := s.pending[key]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(s.pending, key)
	return true
}

func (s *Scheduler) fire(key string, gen uint64) {
	s.mu.Lock()
	e, ok := s.pending[key]
	if !ok || e.gen != gen || s.gen[key] != gen {
		s.mu.Unlock()
		return
	}
	delete(s.pending, key)
	s.mu.Unlock()

	e.fn()
}
