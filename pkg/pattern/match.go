package pattern

import "github.com/bastiangx/tileserve/pkg/alphabet"

// Match runs the positional tokens against a word's letters. On success it returns the
// tile positions that were matched by '.', '?' or '*', in ascending order.
//
// When '*' makes the alignment ambiguous, later stars match as few letters as possible.
func (p *Pattern) Match(word []alphabet.Letter) ([]int, bool) {
	m, n := len(p.tokens), len(word)
	if n < p.minLen || (p.maxLen >= 0 && n > p.maxLen) {
		return nil, false
	}

	// reach[i*(n+1)+j]: tokens[:i] can match word[:j].
	w := n + 1
	reach := make([]bool, (m+1)*w)
	reach[0] = true
	for i := 1; i <= m; i++ {
		t := p.tokens[i-1]
		for j := 0; j <= n; j++ {
			switch t.Kind {
			case Star:
				reach[i*w+j] = reach[(i-1)*w+j] || (j > 0 && reach[i*w+j-1])
			case Any:
				reach[i*w+j] = j > 0 && reach[(i-1)*w+j-1]
			case Literal:
				reach[i*w+j] = j > 0 && word[j-1] == t.Letter && reach[(i-1)*w+j-1]
			}
		}
	}
	if !reach[m*w+n] {
		return nil, false
	}

	var filled []int
	i, j := m, n
	for i > 0 {
		switch p.tokens[i-1].Kind {
		case Star:
			if reach[(i-1)*w+j] {
				i--
			} else {
				j--
				filled = append(filled, j)
			}
		case Any:
			i--
			j--
			filled = append(filled, j)
		case Literal:
			i--
			j--
		}
	}
	for l, r := 0, len(filled)-1; l < r; l, r = l+1, r-1 {
		filled[l], filled[r] = filled[r], filled[l]
	}
	return filled, true
}

// Constrained reports whether counts satisfies the length, required and excluded
// constraints. The positional tokens and the rack are not consulted.
func (p *Pattern) Constrained(counts alphabet.Counts) bool {
	if p.length > 0 && counts.Len() != p.length {
		return false
	}
	if !counts.Contains(p.required) {
		return false
	}
	for i, v := range counts {
		if v > 0 && p.excluded[i] {
			return false
		}
	}
	return true
}

// Feasible reports whether the rack covers every letter of counts not supplied by the
// pattern's fixed letters. Without a rack every word is feasible.
func (p *Pattern) Feasible(counts alphabet.Counts) bool {
	if !p.hasRack {
		return true
	}
	return p.rack.Missing(counts.Minus(p.literals)) <= p.blanks
}

// Accepts applies every predicate of the pattern to a canonical word and returns the
// filled positions on success.
func (p *Pattern) Accepts(canonical string) ([]int, bool) {
	letters := alphabet.Letters(canonical)
	counts := alphabet.CountsOf(letters)
	if !p.Constrained(counts) || !p.Feasible(counts) {
		return nil, false
	}
	return p.Match(letters)
}
