package inpaint

import "math"

// kSSDScale is the per-offset penalty cap: the value+gradient squared
// difference of all three channels at maximum (9 * 255^2).
const kSSDScale = 9 * 255 * 255

// kDistanceScale is the maximum (and sentinel "unset") scaled patch
// distance.
const kDistanceScale = 65535

// Distance computes the patch dissimilarity metric between the patch
// of half-size p centered at (ys, xs) in source and the patch centered
// at (yt, xt) in target. The result is in [0, kDistanceScale]; 0 means
// identical, kDistanceScale means maximally dissimilar. The metric is
// symmetric in its (source, ys, xs) <-> (target, yt, xt) arguments.
//
// An offset whose source or target coordinate is on or outside the
// inner rectangle (coordinate <= 0 or >= dim-1) is charged the maximum
// per-offset penalty kSSDScale, as is any offset where either side is
// masked. Both kinds of offset still count toward wsum.
func Distance(source *MaskedImage, ys, xs int, target *MaskedImage, yt, xt, p int) int {
	var distance float64
	var wsum float64

	for dy := -p; dy <= p; dy++ {
		yys, yyt := ys+dy, yt+dy
		rowOut := yys <= 0 || yys >= source.h-1 || yyt <= 0 || yyt >= target.h-1
		for dx := -p; dx <= p; dx++ {
			xxs, xxt := xs+dx, xt+dx
			wsum++
			if rowOut || xxs <= 0 || xxs >= source.w-1 || xxt <= 0 || xxt >= target.w-1 {
				distance += kSSDScale
				continue
			}
			if source.IsMasked(yys, xxs) || target.IsMasked(yyt, xxt) {
				distance += kSSDScale
				continue
			}

			sgx, sgy := source.Gradient(yys, xxs)
			tgx, tgy := target.Gradient(yyt, xxt)
			sr, sg, sb := source.Pixel(yys, xxs)
			tr, tg, tb := target.Pixel(yyt, xxt)

			ssd := sq(int(sr)-int(tr)) + sq(int(sgx[0])-int(tgx[0])) + sq(int(sgy[0])-int(tgy[0]))
			ssd += sq(int(sg)-int(tg)) + sq(int(sgx[1])-int(tgx[1])) + sq(int(sgy[1])-int(tgy[1]))
			ssd += sq(int(sb)-int(tb)) + sq(int(sgx[2])-int(tgx[2])) + sq(int(sgy[2])-int(tgy[2]))
			distance += float64(ssd)
		}
	}

	distance /= kSSDScale
	if wsum == 0 {
		return kDistanceScale
	}
	res := int(math.Round(kDistanceScale * distance / wsum))
	if res < 0 || res > kDistanceScale {
		return kDistanceScale
	}
	return res
}

func sq(v int) int { return v * v }
