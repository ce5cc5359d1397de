package inpaint

import "math/rand"

const defaultMaxRetry = 20

// Option configures an Inpainter beyond its required (image, mask,
// patchSize) arguments.
type Option func(*Inpainter)

// WithSeed pins the pseudo-random sequence used for NNF initialization
// and random search, making Run deterministic: the same seed and
// inputs always produce byte-identical output. Omitting WithSeed (or
// passing 0) uses a time-derived seed instead.
func WithSeed(seed int64) Option {
	return func(ip *Inpainter) { ip.seed = seed }
}

// WithMaxRetry overrides the number of random draws NNF randomization
// attempts before giving up on finding a sub-sentinel match. The
// reference default is 20.
func WithMaxRetry(maxRetry int) Option {
	return func(ip *Inpainter) { ip.maxRetry = maxRetry }
}

// Inpainter drives the coarse-to-fine EM reconstruction: it owns the
// source pyramid and, for the duration of Run, the pair of NNFs at the
// level currently being refined.
type Inpainter struct {
	pyramid   []*MaskedImage // pyramid[0] is full resolution
	patchSize int
	seed      int64
	maxRetry  int
}

// NewInpainter validates (image, mask, patchSize) and builds the
// downsample pyramid. img must be H*W*3 interleaved RGB bytes; mask
// must be H*W bytes, non-zero meaning unknown.
func NewInpainter(h, w int, img, mask []uint8, patchSize int, opts ...Option) (*Inpainter, error) {
	if patchSize <= 0 {
		return nil, newErrorf(InvalidPatchSize, "patch_size must be positive, got %d", patchSize)
	}
	base, err := NewMaskedImage(w, h, img, mask)
	if err != nil {
		return nil, err
	}
	if h <= patchSize && w <= patchSize {
		return nil, newErrorf(InvalidPatchSize, "no pyramid level fits patch_size %d within %dx%d image", patchSize, w, h)
	}
	if allMasked(mask) {
		return nil, newError(AllMasked, "every pixel of the input is masked; no source region to synthesize from")
	}

	initSimilarityTable()

	ip := &Inpainter{patchSize: patchSize, maxRetry: defaultMaxRetry}
	for _, opt := range opts {
		opt(ip)
	}

	pyramid := []*MaskedImage{base}
	source := base
	for source.h > patchSize && source.w > patchSize {
		source = source.Downsample()
		pyramid = append(pyramid, source)
	}
	ip.pyramid = pyramid
	return ip, nil
}

func allMasked(mask []uint8) bool {
	for _, m := range mask {
		if m == 0 {
			return false
		}
	}
	return true
}

// Run executes the coarse-to-fine EM loop and returns the synthesized
// image as H*W*3 interleaved RGB bytes, H and W equal to the original
// input's. If the pyramid has a single level (patchSize so large no
// level below the original was built), the original image is returned
// unchanged.
func (ip *Inpainter) Run() ([]uint8, error) {
	nrLevels := len(ip.pyramid)
	if nrLevels <= 1 {
		return append([]uint8(nil), ip.pyramid[0].pix...), nil
	}

	rng := newRNG(ip.seed)

	var source, target *MaskedImage
	var s2t, t2s *NNF
	for level := nrLevels - 1; level > 0; level-- {
		source = ip.pyramid[level]
		if level == nrLevels-1 {
			target = source.Clone()
			target.ClearMask()
			s2t = NewNNF(source, target, ip.patchSize, ip.maxRetry, rng)
			t2s = NewNNF(target, source, ip.patchSize, ip.maxRetry, rng)
		} else {
			s2t = NewNNFFrom(source, target, ip.patchSize, s2t, ip.maxRetry, rng)
			t2s = NewNNFFrom(target, source, ip.patchSize, t2s, ip.maxRetry, rng)
		}

		var err error
		target, s2t, t2s, err = ip.expectationMaximization(source, target, s2t, t2s, level, rng)
		if err != nil {
			return nil, err
		}
	}

	return append([]uint8(nil), target.pix...), nil
}

// expectationMaximization runs the EM alternation of NNF minimization
// (expectation) and pixel voting (maximization) for a single pyramid
// level, returning the resulting target and the NNFs as they stood
// after the final iteration (so the next coarser-to-finer step can
// seed from them via NewNNFFrom).
func (ip *Inpainter) expectationMaximization(source, target *MaskedImage, s2t, t2s *NNF, level int, rng *rand.Rand) (*MaskedImage, *NNF, *NNF, error) {
	nrItersEM := 1 + 2*level
	nrItersNNF := 7
	if nrItersNNF > 1+level {
		nrItersNNF = 1 + level
	}

	p := ip.patchSize
	var newSource, newTarget *MaskedImage

	for iter := 0; iter < nrItersEM; iter++ {
		if iter != 0 {
			target = newTarget
		}

		for i := 0; i < source.h; i++ {
			for j := 0; j < source.w; j++ {
				if !source.ContainsMask(i, j, p) {
					s2t.SetIdentity(i, j)
					t2s.SetIdentity(i, j)
				}
			}
		}
		s2t.Minimize(source, target, nrItersNNF, rng)
		t2s.Minimize(target, source, nrItersNNF, rng)

		upscaled := false
		if level >= 1 && iter == nrItersEM-1 {
			newSource = ip.pyramid[level-1]
			newTarget = target.Upsample(newSource.w, newSource.h)
			upscaled = true
		} else {
			newSource = ip.pyramid[level]
			newTarget = target.Clone()
		}

		vote := newVoteBuffer(newTarget.h, newTarget.w)
		ip.expectationStep(s2t, true, vote, newSource, upscaled)
		ip.expectationStep(t2s, false, vote, newSource, upscaled)
		maximizationStep(newTarget, vote)
	}

	return newTarget, s2t, t2s, nil
}

// expectationStep reads one NNF's current matches and adds each
// covering patch's contribution to vote. Patch centers are iterated
// over the NNF's own (pre-upsample) source shape; voteSource is the
// (possibly just-upsampled) image vote's colors are copied from.
func (ip *Inpainter) expectationStep(nnf *NNF, source2target bool, vote *voteBuffer, voteSource *MaskedImage, upscaled bool) {
	p := ip.patchSize
	for i := 0; i < nnf.sh; i++ {
		for j := 0; j < nnf.sw; j++ {
			yp, xp, d := nnf.At(i, j)
			w := similarityWeight(d)

			for di := -p; di <= p; di++ {
				for dj := -p; dj <= p; dj++ {
					ys, xs := i+di, j+dj
					yt, xt := yp+di, xp+dj

					if ys < 0 || ys >= nnf.sh || xs < 0 || xs >= nnf.sw {
						continue
					}
					if yt < 0 || yt >= nnf.th || xt < 0 || xt >= nnf.tw {
						continue
					}

					if !source2target {
						ys, yt = yt, ys
						xs, xt = xt, xs
					}

					if upscaled {
						for uy := 0; uy < 2; uy++ {
							for ux := 0; ux < 2; ux++ {
								weightedCopy(voteSource, 2*ys+uy, 2*xs+ux, vote, 2*yt+uy, 2*xt+ux, w)
							}
						}
					} else {
						weightedCopy(voteSource, ys, xs, vote, yt, xt, w)
					}
				}
			}
		}
	}
}

// maximizationStep normalizes accumulated votes back into target: any
// pixel with nonzero total weight is overwritten with its
// weight-normalized color and unmasked. Pixels with no votes are left
// untouched.
func maximizationStep(target *MaskedImage, vote *voteBuffer) {
	for y := 0; y < target.h; y++ {
		for x := 0; x < target.w; x++ {
			i := vote.idx(y, x)
			total := vote.sum[i+3]
			if total <= 0 {
				continue
			}
			r := clampUint8(roundInt(vote.sum[i+0] / total))
			g := clampUint8(roundInt(vote.sum[i+1] / total))
			b := clampUint8(roundInt(vote.sum[i+2] / total))
			target.SetPixel(y, x, r, g, b)
			target.SetMask(y, x, 0)
		}
	}
	target.computeGradients()
}

func roundInt(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return int(v - 0.5)
}
