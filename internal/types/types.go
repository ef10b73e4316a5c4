package types

import (
	"errors"
	"fmt"
)

// Kind enumerates the scalar element kinds a builtin parameter can carry.
type Kind uint8

const (
	KindVoid Kind = iota
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat16
	KindFloat32
	KindFloat64
	// KindOpaque marks handle types (images, samplers, events, queues) that
	// are identified by name only.
	KindOpaque

	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindInt8:
		return "int8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat16:
		return "float16"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindOpaque:
		return "opaque"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// ByteLen reports the size of one element of the kind. Opaque handles have
// no decomposable size and report 0.
func (k Kind) ByteLen() int {
	switch k {
	case KindBool, KindInt8:
		return 1
	case KindInt16, KindFloat16:
		return 2
	case KindInt32, KindFloat32:
		return 4
	case KindInt64, KindFloat64:
		return 8
	default:
		return 0
	}
}

// IsInteger reports whether the kind is one of the fixed-width integers.
func (k Kind) IsInteger() bool {
	return k >= KindInt8 && k <= KindInt64
}

// IsFloat reports whether the kind is a floating-point kind.
func (k Kind) IsFloat() bool {
	return k >= KindFloat16 && k <= KindFloat64
}

// Width captures integer precision in bits.
type Width uint8

const (
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
	Width64 Width = 64
)

// ParamTypeInfo describes one value's type as seen at a call site.
type ParamTypeInfo struct {
	IsSigned    bool   // meaningful for integer kinds only
	Kind        Kind   // element kind
	ByteLen     int    // size of one element
	VectorWidth int    // 0 for scalars, otherwise the lane count
	StructName  string // handle type name, KindOpaque only
}

// Descriptor helpers ---------------------------------------------------------

// MakeVoid describes void.
func MakeVoid() ParamTypeInfo {
	return ParamTypeInfo{Kind: KindVoid}
}

// MakeBool describes bool.
func MakeBool() ParamTypeInfo {
	return ParamTypeInfo{Kind: KindBool, ByteLen: 1}
}

// MakeInt describes a fixed-width integer.
func MakeInt(width Width, signed bool) ParamTypeInfo {
	var k Kind
	switch width {
	case Width8:
		k = KindInt8
	case Width16:
		k = KindInt16
	case Width32:
		k = KindInt32
	case Width64:
		k = KindInt64
	default:
		panic(fmt.Sprintf("types: invalid integer width %d", width))
	}
	return ParamTypeInfo{Kind: k, IsSigned: signed, ByteLen: k.ByteLen()}
}

// MakeFloat describes a floating-point scalar of 16, 32 or 64 bits.
func MakeFloat(width Width) ParamTypeInfo {
	var k Kind
	switch width {
	case Width16:
		k = KindFloat16
	case Width32:
		k = KindFloat32
	case Width64:
		k = KindFloat64
	default:
		panic(fmt.Sprintf("types: invalid float width %d", width))
	}
	return ParamTypeInfo{Kind: k, ByteLen: k.ByteLen()}
}

// MakeOpaque describes a named handle type such as ocl_image2d_ro.
func MakeOpaque(name string) ParamTypeInfo {
	return ParamTypeInfo{Kind: KindOpaque, StructName: name}
}

// IsValidLanes reports whether n is a lane count vectors may use.
func IsValidLanes(n int) bool {
	switch n {
	case 2, 3, 4, 8, 16:
		return true
	}
	return false
}

var (
	// ErrVectorOfOpaque is returned when lanes are requested for a handle or void type.
	ErrVectorOfOpaque = errors.New("vector element must be a scalar")
	// ErrBadLanes is returned for lane counts outside 2/3/4/8/16.
	ErrBadLanes = errors.New("invalid vector lane count")
)

// Vector returns t widened to the given lane count. Widening a vector
// multiplies its lanes.
func (t ParamTypeInfo) Vector(lanes int) (ParamTypeInfo, error) {
	if t.Kind == KindOpaque || t.Kind == KindVoid {
		return ParamTypeInfo{}, ErrVectorOfOpaque
	}
	if t.VectorWidth > 0 {
		lanes *= t.VectorWidth
	}
	if !IsValidLanes(lanes) {
		return ParamTypeInfo{}, fmt.Errorf("%w: %d", ErrBadLanes, lanes)
	}
	t.VectorWidth = lanes
	return t, nil
}

// IsScalar reports whether the descriptor has no lanes.
func (t ParamTypeInfo) IsScalar() bool { return t.VectorWidth == 0 }

// Validate checks the descriptor invariants.
func (t ParamTypeInfo) Validate() error {
	if t.Kind >= kindCount {
		return fmt.Errorf("unknown kind %d", t.Kind)
	}
	if t.Kind == KindOpaque {
		if t.StructName == "" {
			return errors.New("opaque type without a name")
		}
		if t.VectorWidth != 0 {
			return ErrVectorOfOpaque
		}
		return nil
	}
	if t.StructName != "" {
		return fmt.Errorf("%s carries struct name %q", t.Kind, t.StructName)
	}
	if t.ByteLen != t.Kind.ByteLen() {
		return fmt.Errorf("%s has byte length %d, want %d", t.Kind, t.ByteLen, t.Kind.ByteLen())
	}
	if t.IsSigned && !t.Kind.IsInteger() {
		return fmt.Errorf("%s cannot be signed", t.Kind)
	}
	if t.VectorWidth != 0 && !IsValidLanes(t.VectorWidth) {
		return fmt.Errorf("%w: %d", ErrBadLanes, t.VectorWidth)
	}
	return nil
}
