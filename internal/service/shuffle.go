package service

import (
	"math/rand"
	"sync"
	"time"
)

// Shuffler Fisher-Yates 洗牌，rand.Rand 非并发安全，需加锁
type Shuffler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewShuffler seed 为 0 时使用当前时间
func NewShuffler(seed int64) *Shuffler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Shuffler{rng: rand.New(rand.NewSource(seed))}
}

func (s *Shuffler) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := n - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		swap(i, j)
	}
}

// shuffled 返回打乱后的副本，不修改入参
func shuffled[T any](s *Shuffler, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	s.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
