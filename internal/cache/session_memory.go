package cache

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"MyPetCare/internal/model"
)

// MemorySessionStore 进程内会话存储，单实例部署的默认选项。
type MemorySessionStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewMemorySessionStore 创建带过期时间的会话存储，cleanup 为过期条目的清理间隔。
func NewMemorySessionStore(ttl, cleanup time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		cache: cache.New(ttl, cleanup),
		ttl:   ttl,
	}
}

func (s *MemorySessionStore) Get(ctx context.Context, id string) (*model.OnboardingSession, error) {
	x, found := s.cache.Get(id)
	if !found {
		return nil, notFound(id)
	}
	return decodeSession(x.([]byte))
}

func (s *MemorySessionStore) Save(ctx context.Context, session *model.OnboardingSession) error {
	data, err := encodeSession(session)
	if err != nil {
		return err
	}
	s.cache.Set(session.ID, data, s.ttl)
	return nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}

// Len 当前未过期的会话数
func (s *MemorySessionStore) Len() int {
	return s.cache.ItemCount()
}
