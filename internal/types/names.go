package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// scalarNames maps OpenCL scalar spellings to descriptors.
var scalarNames = map[string]ParamTypeInfo{
	"bool":   MakeBool(),
	"char":   MakeInt(Width8, true),
	"uchar":  MakeInt(Width8, false),
	"short":  MakeInt(Width16, true),
	"ushort": MakeInt(Width16, false),
	"int":    MakeInt(Width32, true),
	"uint":   MakeInt(Width32, false),
	"long":   MakeInt(Width64, true),
	"ulong":  MakeInt(Width64, false),
	"half":   MakeFloat(Width16),
	"float":  MakeFloat(Width32),
	"double": MakeFloat(Width64),
}

// ErrUnknownScalar is returned by ParseScalarName for unrecognised spellings.
var ErrUnknownScalar = errors.New("unknown scalar type")

// ParseScalarName parses an OpenCL type spelling with an optional lane
// suffix, e.g. "uchar4", "half", "ulong16".
func ParseScalarName(text string) (ParamTypeInfo, error) {
	if text == "" {
		return ParamTypeInfo{}, fmt.Errorf("%w: empty", ErrUnknownScalar)
	}
	cut := len(text)
	for cut > 0 && text[cut-1] >= '0' && text[cut-1] <= '9' {
		cut--
	}
	base, digits := text[:cut], text[cut:]
	t, ok := scalarNames[base]
	if !ok {
		return ParamTypeInfo{}, fmt.Errorf("%w: %q", ErrUnknownScalar, base)
	}
	if digits == "" {
		return t, nil
	}
	if digits[0] == '0' {
		return ParamTypeInfo{}, fmt.Errorf("%w: %q", ErrBadLanes, digits)
	}
	lanes, err := strconv.Atoi(digits)
	if err != nil {
		return ParamTypeInfo{}, fmt.Errorf("%w: %q", ErrBadLanes, digits)
	}
	return t.Vector(lanes)
}

// ScalarName returns the OpenCL spelling of the element type, without lanes.
func (t ParamTypeInfo) ScalarName() string {
	switch t.Kind {
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindInt8:
		return signedName(t.IsSigned, "char")
	case KindInt16:
		return signedName(t.IsSigned, "short")
	case KindInt32:
		return signedName(t.IsSigned, "int")
	case KindInt64:
		return signedName(t.IsSigned, "long")
	case KindFloat16:
		return "half"
	case KindFloat32:
		return "float"
	case KindFloat64:
		return "double"
	case KindOpaque:
		return t.StructName
	default:
		return t.Kind.String()
	}
}

func signedName(signed bool, name string) string {
	if signed {
		return name
	}
	return "u" + name
}

// String renders the descriptor using OpenCL spelling, e.g. "uint4".
func (t ParamTypeInfo) String() string {
	if t.VectorWidth == 0 {
		return t.ScalarName()
	}
	var sb strings.Builder
	sb.WriteString(t.ScalarName())
	sb.WriteString(strconv.Itoa(t.VectorWidth))
	return sb.String()
}
