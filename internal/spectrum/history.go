package spectrum

// DefaultHistoryLength is the number of past spectra the tunnel keeps.
const DefaultHistoryLength = 30

// History is a bounded list of past spectra, most recent first.
type History struct {
	max  int
	rows [][]uint8
}

// NewHistory creates a History holding at most max spectra.
func NewHistory(max int) *History {
	if max < 1 {
		max = DefaultHistoryLength
	}
	return &History{max: max, rows: make([][]uint8, 0, max)}
}

// Push stores a copy of spectrum at the front, dropping the oldest entry when
// the history is full.
func (h *History) Push(spectrum []uint8) {
	var row []uint8
	if len(h.rows) == h.max {
		row = h.rows[len(h.rows)-1]
		h.rows = h.rows[:len(h.rows)-1]
	}
	row = append(row[:0], spectrum...)

	h.rows = append(h.rows, nil)
	copy(h.rows[1:], h.rows)
	h.rows[0] = row
}

// At returns the i-th most recent spectrum. The slice must not be modified.
func (h *History) At(i int) []uint8 {
	return h.rows[i]
}

// Len returns the number of stored spectra.
func (h *History) Len() int { return len(h.rows) }

// Max returns the capacity.
func (h *History) Max() int { return h.max }

// Clear empties the history.
func (h *History) Clear() {
	h.rows = h.rows[:0]
}
