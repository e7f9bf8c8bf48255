package profiles

import "math"

// DepthThreshold supplies the masking depth for each dive: either one
// uniform scalar, or a per-dive lookup such as an externally computed mixed
// layer depth keyed by dive number.
type DepthThreshold struct {
	uniform bool
	value   float64
	perDive map[float64]float64
}

// UniformDepth applies the same masking depth to every dive.
func UniformDepth(v float64) DepthThreshold {
	return DepthThreshold{uniform: true, value: v}
}

// PerDiveDepth looks the masking depth up by dive number. Dives without an
// entry behave as if their threshold were NaN.
func PerDiveDepth(depths map[float64]float64) DepthThreshold {
	return DepthThreshold{perDive: depths}
}

func (t DepthThreshold) depthFor(dive float64) float64 {
	if t.uniform {
		return t.value
	}
	if v, ok := t.perDive[dive]; ok {
		return v
	}
	return math.NaN()
}

// MaskAbove returns, per row, whether the sample lies below (deeper than)
// its dive's masking depth. MaskBelow is the mirror image. Neither mutates
// any input; the result aligns with the original row order.
//
// A NaN threshold fails every comparison, so the affected dive comes back
// entirely false: a dive with no usable masking depth contributes no
// samples at all.
func MaskAbove(ix *Index, depths []float64, t DepthThreshold) ([]bool, error) {
	return maskDepth(ix, depths, t, true)
}

// MaskBelow returns, per row, whether the sample lies above (shallower
// than) its dive's masking depth. See MaskAbove.
func MaskBelow(ix *Index, depths []float64, t DepthThreshold) ([]bool, error) {
	return maskDepth(ix, depths, t, false)
}

func maskDepth(ix *Index, depths []float64, t DepthThreshold, above bool) ([]bool, error) {
	if err := ix.checkLen("dive, depth", len(depths)); err != nil {
		return nil, err
	}

	mask := make([]bool, len(depths))
	for _, dive := range ix.keys {
		limit := t.depthFor(dive)
		for _, r := range ix.rows[dive] {
			if above {
				mask[r] = depths[r] > limit
			} else {
				mask[r] = depths[r] < limit
			}
		}
	}
	return mask, nil
}
