package board

type PseudoRand struct {
	s uint64
}

func NewPseudoRand() *PseudoRand {
	return &PseudoRand{s: 1}
}

// Seed sets the generator state. A zero seed would lock xorshift at zero, so it is replaced by 1.
func (r *PseudoRand) Seed(seed uint64) {
	if seed == 0 {
		seed = 1
	}
	r.s = seed
}

func (r *PseudoRand) Uint64() uint64 {
	r.s ^= r.s >> 12
	r.s ^= r.s << 25
	r.s ^= r.s >> 27
	return r.s * 2685821657736338717
}

func (r *PseudoRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Uint64() % uint64(n))
}

// RandomPlayout plays uniformly random legal moves from b until the board reaches the given level or the
// game ends. Forced passes are played without counting as a move.
func RandomPlayout(b *Board, level int, r *PseudoRand) *Board {
	for b.Level() < level {
		switch b.State() {
		case StateFinished:
			return b
		case StatePass:
			b = b.Pass()
			continue
		}
		children := b.Children(false)
		b = children[r.Intn(len(children))]
	}
	return b
}
