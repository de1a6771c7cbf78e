package particle

import (
	"image/color"
	"math/rand/v2"
)

// jitter shifts every channel of base by up to ±amount.
func jitter(rng *rand.Rand, base color.RGBA, amount float64, alpha uint8) color.RGBA {
	return color.RGBA{
		R: shift(base.R, uniform(rng, -amount, amount)),
		G: shift(base.G, uniform(rng, -amount, amount)),
		B: shift(base.B, uniform(rng, -amount, amount)),
		A: alpha,
	}
}

// warm pushes red up, keeps green near base and pulls blue down.
func warm(rng *rand.Rand, base color.RGBA, amount float64, alpha uint8) color.RGBA {
	return color.RGBA{
		R: shift(base.R, uniform(rng, 0, amount)),
		G: shift(base.G, uniform(rng, -amount/2, amount/2)),
		B: shift(base.B, uniform(rng, -amount, 0)),
		A: alpha,
	}
}

// brighten lifts all channels by the same random amount.
func brighten(rng *rand.Rand, base color.RGBA, alpha uint8) color.RGBA {
	amount := uniform(rng, 20, 50)
	return color.RGBA{
		R: shift(base.R, amount),
		G: shift(base.G, amount),
		B: shift(base.B, amount),
		A: alpha,
	}
}

func alphaBetween(rng *rand.Rand, lo, hi float64) uint8 {
	return shift(0, uniform(rng, lo, hi))
}

func shift(v uint8, d float64) uint8 {
	f := float64(v) + d
	switch {
	case f <= 0:
		return 0
	case f >= 255:
		return 255
	default:
		return uint8(f)
	}
}
