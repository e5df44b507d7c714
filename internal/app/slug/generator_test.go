package slug

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandom_Generate_Length(t *testing.T) {
	gen := NewRandom()
	for _, length := range []int{1, 2, 6, 7, 32, 100} {
		s := gen.Generate(length)
		assert.Len(t, s, length)
		for _, r := range s {
			assert.True(t, strings.ContainsRune(Alphabet, r), "unexpected symbol %q", r)
		}
	}
}

func TestRandom_Generate_NonPositiveLength(t *testing.T) {
	gen := NewRandom()
	assert.Empty(t, gen.Generate(0))
	assert.Empty(t, gen.Generate(-3))
}

func TestRandom_Generate_CoversAlphabet(t *testing.T) {
	gen := NewRandom()
	seen := make(map[rune]int)
	for i := 0; i < 500; i++ {
		for _, r := range gen.Generate(16) {
			seen[r]++
		}
	}
	// 8000 draws over 62 symbols; each one is expected ~129 times.
	assert.Len(t, seen, len(Alphabet))
}

func TestRandom_Generate_Concurrent(t *testing.T) {
	gen := NewRandom()

	const workers = 16
	const perWorker = 200

	var mu sync.Mutex
	seen := make(map[string]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]string, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				local = append(local, gen.Generate(12))
			}
			mu.Lock()
			for _, s := range local {
				seen[s] = struct{}{}
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	// 62^12 candidates; a duplicate here would mean shared or predictable state.
	require.Len(t, seen, workers*perWorker)
}
