package classify

import (
	"strings"

	"kernelsym/internal/catalog"
)

var (
	laneTokens = []struct {
		text  string
		lanes int
	}{
		{"16", 16}, {"2", 2}, {"3", 3}, {"4", 4}, {"8", 8},
	}
	formatTokens = []struct {
		text   string
		format catalog.PixelFormat
	}{
		{"ui", catalog.FormatUint}, {"f", catalog.FormatFloat}, {"i", catalog.FormatInt}, {"h", catalog.FormatHalf},
	}
	roundingTokens = []struct {
		text     string
		rounding catalog.Rounding
	}{
		{"_rte", catalog.RoundNearestEven}, {"_rtz", catalog.RoundTowardZero},
		{"_rtp", catalog.RoundTowardPositive}, {"_rtn", catalog.RoundTowardNegative},
	}
)

// parseTail matches tail completely against the slot pattern. Optional
// slots may be skipped; the first complete parse in pattern order wins.
func parseTail(tail string, slots []catalog.SuffixSlot) (Suffix, bool) {
	if len(slots) == 0 {
		return Suffix{}, tail == ""
	}
	slot, rest := slots[0], slots[1:]
	for _, cand := range tokens(tail, slot.Class) {
		if s, ok := parseTail(tail[cand.n:], rest); ok {
			cand.apply(&s)
			return s, true
		}
	}
	if slot.Optional {
		return parseTail(tail, rest)
	}
	return Suffix{}, false
}

// token is one way of consuming the head of a tail for a suffix class.
type token struct {
	n     int
	apply func(*Suffix)
}

func tokens(tail string, class catalog.SuffixClass) []token {
	var out []token
	switch class {
	case catalog.SuffixLanes:
		for _, t := range laneTokens {
			if strings.HasPrefix(tail, t.text) {
				lanes := t.lanes
				out = append(out, token{len(t.text), func(s *Suffix) { s.Lanes = lanes }})
			}
		}
	case catalog.SuffixPixelFormat:
		for _, t := range formatTokens {
			if strings.HasPrefix(tail, t.text) {
				format := t.format
				out = append(out, token{len(t.text), func(s *Suffix) { s.Format = format }})
			}
		}
	case catalog.SuffixSaturation:
		if strings.HasPrefix(tail, "_sat") {
			out = append(out, token{4, func(s *Suffix) { s.Saturate = true }})
		}
	case catalog.SuffixRounding:
		for _, t := range roundingTokens {
			if strings.HasPrefix(tail, t.text) {
				rounding := t.rounding
				out = append(out, token{len(t.text), func(s *Suffix) { s.Rounding = rounding }})
			}
		}
	case catalog.SuffixType:
		if n := typeTokenLen(tail); n > 0 {
			name := tail[1:n]
			out = append(out, token{n, func(s *Suffix) { s.TypeName = name }})
		}
	}
	return out
}

// typeTokenLen measures "_<letters><digits>" at the head of tail.
func typeTokenLen(tail string) int {
	if len(tail) < 2 || tail[0] != '_' {
		return 0
	}
	i := 1
	for i < len(tail) && tail[i] >= 'a' && tail[i] <= 'z' {
		i++
	}
	if i == 1 {
		return 0
	}
	for i < len(tail) && tail[i] >= '0' && tail[i] <= '9' {
		i++
	}
	return i
}
