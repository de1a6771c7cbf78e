package spectrum

// AudioData is the per-frame audio summary every visual reads. It is built
// once per frame and treated as read-only afterwards.
type AudioData struct {
	Frequencies []uint8
	Bass        float64
	Mid         float64
	Treble      float64
	Volume      float64
}

// Silent reports whether the snapshot carries no spectrum at all.
func (a AudioData) Silent() bool {
	return len(a.Frequencies) == 0
}

// Levels summarizes a byte spectrum into bass, mid, treble and overall volume.
// The first 10% of bins are bass, the next 30% mid, the rest treble. Each level
// is the band mean scaled to 0.0–1.0. A band with no bins reports 0.
func Levels(energies []uint8) AudioData {
	n := len(energies)
	if n == 0 {
		return AudioData{}
	}

	bassEnd := n / 10
	midEnd := n * 4 / 10

	var bass, mid, treble, total float64
	for i, e := range energies {
		v := float64(e)
		total += v
		switch {
		case i < bassEnd:
			bass += v
		case i < midEnd:
			mid += v
		default:
			treble += v
		}
	}

	freqs := make([]uint8, n)
	copy(freqs, energies)

	return AudioData{
		Frequencies: freqs,
		Bass:        bandMean(bass, bassEnd),
		Mid:         bandMean(mid, midEnd-bassEnd),
		Treble:      bandMean(treble, n-midEnd),
		Volume:      bandMean(total, n),
	}
}

func bandMean(sum float64, bins int) float64 {
	if bins <= 0 {
		return 0
	}
	return sum / float64(bins) / 255
}
