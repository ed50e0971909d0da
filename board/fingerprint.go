package board

import (
	"fmt"

	"github.com/daystram/reversi/position"
)

// Fingerprint identifies a position up to rotation and reflection, together with its side to move.
// Cell digits alternate between the two words, so each word holds at most 32 base-3 digits and the
// mover bit appended to the last word never overflows.
type Fingerprint [2]uint64

func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x%016x", f[0], f[1])
}

// Fingerprint returns the canonical fingerprint, computed on first use.
func (b *Board) Fingerprint() Fingerprint {
	b.fpOnce.Do(func() {
		b.fp = b.fingerprint()
	})
	return b.fp
}

// fingerprint scans the cells in row-major order and, at each step, keeps only the transforms whose
// image reads the largest digit so far. The surviving digit sequence is the lexicographic maximum over
// the dihedral group.
func (b *Board) fingerprint() Fingerprint {
	var fp Fingerprint
	all := position.AllTransforms
	candidates := all[:]
	scans := &scanTransforms[b.dim]

	for i := 0; i < b.Area(); i++ {
		var best Side
		next := candidates[:0] // filtered in place
		for _, t := range candidates {
			digit := b.At(scans[t][i])
			switch {
			case digit > best:
				best = digit
				next = append(next[:0], t)
			case digit == best:
				next = append(next, t)
			}
		}
		candidates = next
		fp[i%2] = fp[i%2]*3 + uint64(best)
	}

	var moverBit uint64
	if b.turn == SideLight {
		moverBit = 1
	}
	fp[1] = fp[1]*2 + moverBit
	return fp
}
