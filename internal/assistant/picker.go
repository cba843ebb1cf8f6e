package assistant

import (
	"math/rand/v2"
	"sync"
)

// Picker chooses uniformly among near-duplicate canned responses.
// Implementations must be safe for concurrent use.
type Picker interface {
	IntN(n int) int
}

type globalPicker struct{}

func (globalPicker) IntN(n int) int { return rand.IntN(n) }

// NewSeededPicker returns a deterministic Picker for tests and replays.
func NewSeededPicker(seed uint64) Picker {
	return &seededPicker{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

type seededPicker struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (p *seededPicker) IntN(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r.IntN(n)
}

func pick(p Picker, options []string) string {
	return options[p.IntN(len(options))]
}
