package inpaint

// voteBuffer accumulates weighted color votes for one EM iteration's
// target. Channels 0..2 hold weighted color sums, channel 3 the total
// weight, kept interleaved (channel-major per pixel) since the
// expectation step visits neighboring cells together and interleaved
// storage favors that access pattern.
type voteBuffer struct {
	w, h int
	sum  []float64 // len 4*w*h
}

func newVoteBuffer(h, w int) *voteBuffer {
	return &voteBuffer{w: w, h: h, sum: make([]float64, 4*w*h)}
}

func (v *voteBuffer) idx(y, x int) int { return (y*v.w + x) * 4 }

// weightedCopy adds source's color at (ys, xs), scaled by weight, into
// the vote buffer at (yt, xt). A masked source pixel contributes
// nothing: its color is unknown, so it cannot vote. This matches
// kDistance2Similarity-weighted accumulation in the reference, which
// normalizes by total similarity weight, not by contributor count.
func weightedCopy(source *MaskedImage, ys, xs int, vote *voteBuffer, yt, xt int, weight float64) {
	if source.IsMasked(ys, xs) {
		return
	}
	r, g, b := source.Pixel(ys, xs)
	i := vote.idx(yt, xt)
	vote.sum[i+0] += float64(r) * weight
	vote.sum[i+1] += float64(g) * weight
	vote.sum[i+2] += float64(b) * weight
	vote.sum[i+3] += weight
}
