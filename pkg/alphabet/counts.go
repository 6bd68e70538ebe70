package alphabet

// Counts is a letter multiset indexed by Letter.
type Counts [Size]uint8

// CountsOf builds the multiset of letters.
func CountsOf(letters []Letter) Counts {
	var c Counts
	for _, l := range letters {
		c[l]++
	}
	return c
}

// CountsOfString builds the multiset of a canonical string.
func CountsOfString(canonical string) Counts {
	return CountsOf(Letters(canonical))
}

// Len returns the number of tiles in c.
func (c Counts) Len() int {
	n := 0
	for _, v := range c {
		n += int(v)
	}
	return n
}

// Contains reports whether other is a sub-multiset of c.
func (c Counts) Contains(other Counts) bool {
	for i, v := range other {
		if v > c[i] {
			return false
		}
	}
	return true
}

// Missing returns how many tiles of other are not covered by c.
func (c Counts) Missing(other Counts) int {
	n := 0
	for i, v := range other {
		if v > c[i] {
			n += int(v - c[i])
		}
	}
	return n
}

// Minus subtracts other from c, flooring at zero.
func (c Counts) Minus(other Counts) Counts {
	for i, v := range other {
		if v >= c[i] {
			c[i] = 0
		} else {
			c[i] -= v
		}
	}
	return c
}

// Plus adds other to c.
func (c Counts) Plus(other Counts) Counts {
	for i, v := range other {
		c[i] += v
	}
	return c
}

// Alphagram returns the letters of c in collation order.
func (c Counts) Alphagram() []Letter {
	out := make([]Letter, 0, c.Len())
	for _, l := range byRank {
		for range c[l] {
			out = append(out, l)
		}
	}
	return out
}

// String returns the alphagram of c in internal form.
func (c Counts) String() string {
	return String(c.Alphagram())
}
