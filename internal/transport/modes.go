package transport

// Modes is the ordered set of angular-momentum indices -l..l.
type Modes []int

// NewModes returns the 2l+1 modes for cutoff l.
func NewModes(cutoff int) (Modes, error) {
	if cutoff < 0 {
		return nil, ErrInvalidCutoff
	}
	m := make(Modes, 0, 2*cutoff+1)
	for n := -cutoff; n <= cutoff; n++ {
		m = append(m, n)
	}
	return m, nil
}

// Len is N, the dimension of the single-spin mode space.
func (m Modes) Len() int { return len(m) }
