package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrRecordNotFound = errors.New("record not found")

// MemoryStore 进程内记录存储，用于本地开发和测试
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string][]Record
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string][]Record), now: time.Now}
}

func (s *MemoryStore) Find(_ context.Context, table string, c Criteria) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, len(s.tables[table]))
	for _, r := range s.tables[table] {
		fields, err := cloneFields(r.Fields)
		if err != nil {
			return nil, err
		}
		out = append(out, Record{ID: r.ID, CreatedTime: r.CreatedTime, Fields: fields})
	}
	return filterRecords(out, c), nil
}

func (s *MemoryStore) Create(_ context.Context, table string, fields map[string]interface{}) (Record, error) {
	copied, err := cloneFields(fields)
	if err != nil {
		return Record{}, err
	}
	r := Record{ID: "rec" + uuid.NewString(), CreatedTime: s.now().UTC(), Fields: copied}

	s.mu.Lock()
	s.tables[table] = append(s.tables[table], r)
	s.mu.Unlock()
	return r, nil
}

func (s *MemoryStore) Update(_ context.Context, table, id string, fields map[string]interface{}) (Record, error) {
	copied, err := cloneFields(fields)
	if err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.tables[table]
	for i := range rows {
		if rows[i].ID != id {
			continue
		}
		merged := make(map[string]interface{}, len(rows[i].Fields)+len(copied))
		for k, v := range rows[i].Fields {
			merged[k] = v
		}
		for k, v := range copied {
			merged[k] = v
		}
		rows[i].Fields = merged
		out, err := cloneFields(merged)
		if err != nil {
			return Record{}, err
		}
		return Record{ID: id, CreatedTime: rows[i].CreatedTime, Fields: out}, nil
	}
	return Record{}, ErrRecordNotFound
}

func (s *MemoryStore) Ping(context.Context) error { return nil }
