package catalog

import "fmt"

// Kind is the closed set of builtin families the classifier can report.
type Kind uint8

const (
	KindNone Kind = iota

	// Name-encoded return types.
	KindConversion
	KindReinterpret

	// Images. KindImageRead is the catalog-level family; lookups resolve it
	// to the sampled or unsampled variant.
	KindImageRead
	KindImageReadSampled
	KindImageReadUnsampled
	KindImageWrite
	KindImageQueryWidth
	KindImageQueryHeight
	KindImageQueryDepth
	KindImageQueryDim
	KindImageQueryArraySize
	KindImageQueryChannelDataType
	KindImageQueryChannelOrder

	// Work-items and synchronization.
	KindWorkItem
	KindSubGroup
	KindBarrier
	KindMemFence

	// Atomics. Legacy (atomic_*, atom_*) and C11 (atomic_fetch_*) spellings
	// share a kind per operation.
	KindAtomicAdd
	KindAtomicSub
	KindAtomicXchg
	KindAtomicInc
	KindAtomicDec
	KindAtomicCmpxchg
	KindAtomicMin
	KindAtomicMax
	KindAtomicAnd
	KindAtomicOr
	KindAtomicXor
	KindAtomicLoad
	KindAtomicStore
	KindAtomicInit
	KindAtomicFlag

	// Vector data movement.
	KindVload
	KindVstore
	KindVloadHalf
	KindVstoreHalf
	KindVloadaHalf
	KindVstoreaHalf
	KindAsyncCopy
	KindAsyncStridedCopy
	KindWaitGroupEvents
	KindPrefetch

	// Arithmetic families.
	KindMath
	KindMathPointerOut
	KindInteger
	KindCommon
	KindGeometric
	KindRelational
	KindMad
	KindFma
	KindClamp
	KindSelect
	KindShuffle
	KindShuffle2
	KindPrintf

	// Compiler-internal helpers with unmangled names.
	KindSamplerLiteral
	KindSpirvOp
	KindCompositeConstruct

	kindCount
)

var kindNames = [kindCount]string{
	KindNone:                      "none",
	KindConversion:                "conversion",
	KindReinterpret:               "reinterpret",
	KindImageRead:                 "image_read",
	KindImageReadSampled:          "image_read_sampled",
	KindImageReadUnsampled:        "image_read_unsampled",
	KindImageWrite:                "image_write",
	KindImageQueryWidth:           "image_query_width",
	KindImageQueryHeight:          "image_query_height",
	KindImageQueryDepth:           "image_query_depth",
	KindImageQueryDim:             "image_query_dim",
	KindImageQueryArraySize:       "image_query_array_size",
	KindImageQueryChannelDataType: "image_query_channel_data_type",
	KindImageQueryChannelOrder:    "image_query_channel_order",
	KindWorkItem:                  "work_item",
	KindSubGroup:                  "sub_group",
	KindBarrier:                   "barrier",
	KindMemFence:                  "mem_fence",
	KindAtomicAdd:                 "atomic_add",
	KindAtomicSub:                 "atomic_sub",
	KindAtomicXchg:                "atomic_xchg",
	KindAtomicInc:                 "atomic_inc",
	KindAtomicDec:                 "atomic_dec",
	KindAtomicCmpxchg:             "atomic_cmpxchg",
	KindAtomicMin:                 "atomic_min",
	KindAtomicMax:                 "atomic_max",
	KindAtomicAnd:                 "atomic_and",
	KindAtomicOr:                  "atomic_or",
	KindAtomicXor:                 "atomic_xor",
	KindAtomicLoad:                "atomic_load",
	KindAtomicStore:               "atomic_store",
	KindAtomicInit:                "atomic_init",
	KindAtomicFlag:                "atomic_flag",
	KindVload:                     "vload",
	KindVstore:                    "vstore",
	KindVloadHalf:                 "vload_half",
	KindVstoreHalf:                "vstore_half",
	KindVloadaHalf:                "vloada_half",
	KindVstoreaHalf:               "vstorea_half",
	KindAsyncCopy:                 "async_copy",
	KindAsyncStridedCopy:          "async_strided_copy",
	KindWaitGroupEvents:           "wait_group_events",
	KindPrefetch:                  "prefetch",
	KindMath:                      "math",
	KindMathPointerOut:            "math_pointer_out",
	KindInteger:                   "integer",
	KindCommon:                    "common",
	KindGeometric:                 "geometric",
	KindRelational:                "relational",
	KindMad:                       "mad",
	KindFma:                       "fma",
	KindClamp:                     "clamp",
	KindSelect:                    "select",
	KindShuffle:                   "shuffle",
	KindShuffle2:                  "shuffle2",
	KindPrintf:                    "printf",
	KindSamplerLiteral:            "sampler_literal",
	KindSpirvOp:                   "spirv_op",
	KindCompositeConstruct:        "composite_construct",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k := KindNone; k < kindCount; k++ {
		m[kindNames[k]] = k
	}
	return m
}()

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind resolves the catalog spelling of a kind.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindByName[name]
	return k, ok
}

// Kinds returns every kind except KindNone, in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindNone + 1; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// EncodesReturnType reports whether the destination type of the family is
// spelled in the builtin name rather than mangled as a parameter.
func (k Kind) EncodesReturnType() bool {
	return k == KindConversion || k == KindReinterpret
}

// IsImage reports whether the kind belongs to the image builtins.
func (k Kind) IsImage() bool {
	return k >= KindImageRead && k <= KindImageQueryChannelOrder
}

// IsImageQuery reports whether the kind is one of the image metadata queries.
func (k Kind) IsImageQuery() bool {
	return k >= KindImageQueryWidth && k <= KindImageQueryChannelOrder
}

// IsAtomic reports whether the kind is an atomic operation.
func (k Kind) IsAtomic() bool {
	return k >= KindAtomicAdd && k <= KindAtomicFlag
}

// PixelFormat is the result type selected by an image builtin suffix.
type PixelFormat uint8

const (
	FormatNone PixelFormat = iota
	FormatFloat
	FormatInt
	FormatUint
	FormatHalf
)

func (f PixelFormat) String() string {
	switch f {
	case FormatFloat:
		return "f"
	case FormatInt:
		return "i"
	case FormatUint:
		return "ui"
	case FormatHalf:
		return "h"
	default:
		return ""
	}
}

// Rounding is the rounding mode selected by a conversion or store suffix.
type Rounding uint8

const (
	RoundDefault Rounding = iota
	RoundNearestEven
	RoundTowardZero
	RoundTowardPositive
	RoundTowardNegative
)

func (r Rounding) String() string {
	switch r {
	case RoundNearestEven:
		return "rte"
	case RoundTowardZero:
		return "rtz"
	case RoundTowardPositive:
		return "rtp"
	case RoundTowardNegative:
		return "rtn"
	default:
		return ""
	}
}

// Category is the classification result: the kind plus the modifiers
// decoded from the builtin name. The zero value means "not a builtin".
type Category struct {
	Kind     Kind
	Format   PixelFormat
	Saturate bool
	Rounding Rounding
	Lanes    int
}

// IsNone reports whether the category is the "not a builtin" value.
func (c Category) IsNone() bool { return c.Kind == KindNone }

func (c Category) String() string {
	s := c.Kind.String()
	if c.Format != FormatNone {
		s += "/" + c.Format.String()
	}
	if c.Lanes != 0 {
		s += fmt.Sprintf("/x%d", c.Lanes)
	}
	if c.Saturate {
		s += "/sat"
	}
	if c.Rounding != RoundDefault {
		s += "/" + c.Rounding.String()
	}
	return s
}
