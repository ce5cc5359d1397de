package inpaint

import "math/rand"

// NNF is a dense approximate nearest-neighbor field from every patch
// center of a source MaskedImage to its best-found match in a target
// MaskedImage, maintained by PatchMatch propagation + random search.
//
// Source and target are not stored on the NNF itself: every method
// that needs them takes them as explicit arguments, rather than
// holding references that would need rebinding whenever the EM loop
// swaps in a new target — passing them as plain arguments makes every
// pass a pure function of its inputs.
type NNF struct {
	sh, sw int // source dimensions
	th, tw int // target dimensions
	p      int // patch half-size

	// field holds one (ty, tx, d) triple per source pixel, row-major.
	ty, tx, d []int32
}

func newNNFShape(sh, sw, th, tw, p int) *NNF {
	n := sh * sw
	nnf := &NNF{sh: sh, sw: sw, th: th, tw: tw, p: p, ty: make([]int32, n), tx: make([]int32, n), d: make([]int32, n)}
	for i := range nnf.d {
		nnf.d[i] = kDistanceScale
	}
	return nnf
}

func (n *NNF) idx(y, x int) int { return y*n.sw + x }

// At returns the current best match for source pixel (y, x).
func (n *NNF) At(y, x int) (ty, tx, d int) {
	i := n.idx(y, x)
	return int(n.ty[i]), int(n.tx[i]), int(n.d[i])
}

func (n *NNF) set(y, x, ty, tx, d int) {
	i := n.idx(y, x)
	n.ty[i], n.tx[i], n.d[i] = int32(ty), int32(tx), int32(d)
}

// NewNNF allocates a field of shape (S.H, S.W) mapping into T,
// initializes every entry to the distance sentinel, and fills it via
// Randomize(maxRetry, reset=true).
func NewNNF(source, target *MaskedImage, p, maxRetry int, rng *rand.Rand) *NNF {
	nnf := newNNFShape(source.h, source.w, target.h, target.w, p)
	nnf.Randomize(source, target, maxRetry, true, rng)
	return nnf
}

// NewNNFFrom seeds a finer field from a coarser NNF `other` (built
// against source/target at a coarser pyramid level), then re-rolls
// only the entries Randomize finds still stuck at the sentinel
// distance.
func NewNNFFrom(source, target *MaskedImage, p int, other *NNF, maxRetry int, rng *rand.Rand) *NNF {
	nnf := newNNFShape(source.h, source.w, target.h, target.w, p)
	fi := float64(source.h) / float64(other.sh)
	fj := float64(source.w) / float64(other.sw)
	for i := 0; i < source.h; i++ {
		ilow := int(float64(i) / fi)
		if ilow > other.sh-1 {
			ilow = other.sh - 1
		}
		for j := 0; j < source.w; j++ {
			jlow := int(float64(j) / fj)
			if jlow > other.sw-1 {
				jlow = other.sw - 1
			}
			oty, otx, _ := other.At(ilow, jlow)
			ty := int(float64(oty) * fi)
			tx := int(float64(otx) * fj)
			d := Distance(source, i, j, target, ty, tx, p)
			nnf.set(i, j, ty, tx, d)
		}
	}
	nnf.Randomize(source, target, maxRetry, false, rng)
	return nnf
}

// Randomize re-rolls field entries. When reset is true every entry is
// re-rolled; otherwise only entries whose stored distance still equals
// the sentinel kDistanceScale are. Up to maxRetry random target
// coordinates are tried, accepting the first with distance <
// kDistanceScale; if none qualifies the last draw is kept regardless.
func (n *NNF) Randomize(source, target *MaskedImage, maxRetry int, reset bool, rng *rand.Rand) {
	for i := 0; i < n.sh; i++ {
		for j := 0; j < n.sw; j++ {
			_, _, cur := n.At(i, j)
			if !reset && cur < kDistanceScale {
				continue
			}
			var ti, tj, d int
			for t := 0; t < maxRetry; t++ {
				ti = rng.Intn(n.th)
				tj = rng.Intn(n.tw)
				d = Distance(source, i, j, target, ti, tj, n.p)
				if d < kDistanceScale {
					break
				}
			}
			n.set(i, j, ti, tj, d)
		}
	}
}

// SetIdentity overwrites the entry at (y, x) with (y, x, 0): used on
// source locations whose surrounding patch contains no masked pixels,
// where the identity mapping is trivially optimal and doesn't need
// searching.
func (n *NNF) SetIdentity(y, x int) {
	n.set(y, x, y, x, 0)
}

// Minimize runs nrPass passes of forward-then-backward propagation and
// random search. No cell's stored distance ever increases during a
// pass: every candidate is only accepted on strict improvement.
func (n *NNF) Minimize(source, target *MaskedImage, nrPass int, rng *rand.Rand) {
	for ; nrPass > 0; nrPass-- {
		for i := 0; i < n.sh; i++ {
			for j := 0; j < n.sw; j++ {
				if _, _, d := n.At(i, j); d > 0 {
					n.minimizeLink(source, target, i, j, 1, rng)
				}
			}
		}
		for i := n.sh - 1; i >= 0; i-- {
			for j := n.sw - 1; j >= 0; j-- {
				if _, _, d := n.At(i, j); d > 0 {
					n.minimizeLink(source, target, i, j, -1, rng)
				}
			}
		}
	}
}

// minimizeLink proposes a vertical-propagation, horizontal-propagation
// and a sequence of shrinking random-search candidates for (y, x),
// accepting any strict improvement in place. Propagation reads the
// neighbor's *current* (possibly already-updated-this-pass) value, so
// a sweep is in-place, not double-buffered.
func (n *NNF) minimizeLink(source, target *MaskedImage, y, x, direction int, rng *rand.Rand) {
	curTy, curTx, curD := n.At(y, x)

	propose := func(ty, tx int) {
		if ty < 0 || ty >= n.th || tx < 0 || tx >= n.tw {
			return
		}
		d := Distance(source, y, x, target, ty, tx, n.p)
		if d < curD {
			curTy, curTx, curD = ty, tx, d
		}
	}

	ny := y - direction
	if ny >= 0 && ny < n.sh {
		ty, tx, _ := n.At(ny, x)
		propose(ty+direction, tx)
	}

	nx := x - direction
	if nx >= 0 && nx < n.sw {
		ty, tx, _ := n.At(y, nx)
		propose(ty, tx+direction)
	}

	randomScale := (minInt(n.th, n.tw) - 1) / 2
	for randomScale > 0 {
		ty := curTy + rng.Intn(2*randomScale+1) - randomScale
		tx := curTx + rng.Intn(2*randomScale+1) - randomScale
		ty = clampInt(ty, 0, n.th-1)
		tx = clampInt(tx, 0, n.tw-1)
		propose(ty, tx)
		randomScale /= 2
	}

	n.set(y, x, curTy, curTx, curD)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
