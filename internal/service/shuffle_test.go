package service

import (
	"sync"
	"testing"

	"edulearn_backend/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestShuffledKeepsInputIntact(t *testing.T) {
	s := NewShuffler(3)
	in := []int{1, 2, 3, 4, 5, 6, 7, 8}
	out := shuffled(s, in)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, in)
	assert.ElementsMatch(t, in, out)
}

func TestShufflerSameSeedSameOrder(t *testing.T) {
	in := []string{"a", "b", "c", "d", "e", "f"}
	assert.Equal(t, shuffled(NewShuffler(11), in), shuffled(NewShuffler(11), in))
}

func TestShufflerConcurrentUse(t *testing.T) {
	s := NewShuffler(0)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				shuffled(s, []int{1, 2, 3, 4})
			}
		}()
	}
	wg.Wait()
}

func TestQuizSettingsSet(t *testing.T) {
	settings := NewQuizSettings(config.QuizConfig{DefaultQuestionCount: 10, MaxQuestionCount: 50})
	settings.Set(config.QuizConfig{DefaultQuestionCount: 5, MaxQuestionCount: 20})
	assert.Equal(t, 5, settings.Get().DefaultQuestionCount)
	assert.Equal(t, 20, settings.Get().MaxQuestionCount)
}
