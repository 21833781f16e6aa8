package service

import (
	"edulearn_backend/internal/config"
	"sync"
)

// QuizSettings 可热更新的出题配置
type QuizSettings struct {
	mu  sync.RWMutex
	cfg config.QuizConfig
}

func NewQuizSettings(cfg config.QuizConfig) *QuizSettings {
	return &QuizSettings{cfg: cfg}
}

func (s *QuizSettings) Get() config.QuizConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *QuizSettings) Set(cfg config.QuizConfig) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}
