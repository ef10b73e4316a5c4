package catalog

import (
	"fmt"
	"strings"
)

// SuffixClass names a family of tokens that may trail a builtin stem.
type SuffixClass uint8

const (
	SuffixLanes       SuffixClass = iota + 1 // 2|3|4|8|16, appended directly
	SuffixPixelFormat                        // f|i|ui|h, appended directly
	SuffixSaturation                         // _sat
	SuffixRounding                           // _rte|_rtz|_rtp|_rtn
	SuffixType                               // _<type name><lanes?>
)

var suffixClassNames = map[SuffixClass]string{
	SuffixLanes:       "lanes",
	SuffixPixelFormat: "pixel_format",
	SuffixSaturation:  "saturation",
	SuffixRounding:    "rounding",
	SuffixType:        "type",
}

func (c SuffixClass) String() string {
	if s, ok := suffixClassNames[c]; ok {
		return s
	}
	return fmt.Sprintf("SuffixClass(%d)", c)
}

// SuffixSlot is one position in a family's suffix pattern.
type SuffixSlot struct {
	Class    SuffixClass
	Optional bool
}

func (s SuffixSlot) String() string {
	if s.Optional {
		return s.Class.String() + "?"
	}
	return s.Class.String()
}

// ParseSuffixSlot parses "class" or "class?" as used in catalog files.
func ParseSuffixSlot(text string) (SuffixSlot, error) {
	slot := SuffixSlot{}
	name := strings.TrimSpace(text)
	if strings.HasSuffix(name, "?") {
		slot.Optional = true
		name = strings.TrimSuffix(name, "?")
	}
	for class, s := range suffixClassNames {
		if s == name {
			slot.Class = class
			return slot, nil
		}
	}
	return SuffixSlot{}, fmt.Errorf("%w: %q", ErrBadSuffix, text)
}
