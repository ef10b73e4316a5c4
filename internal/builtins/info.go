package builtins

import (
	"fmt"
	"strings"

	"kernelsym/internal/catalog"
	"kernelsym/internal/types"
)

// FunctionInfo is the classification of one symbol. Values are built once
// by the registry and never modified; callers share the pointer.
type FunctionInfo struct {
	valid      bool
	category   catalog.Category
	name       string
	returnType types.ParamTypeInfo
	params     []types.ParamTypeInfo
}

// invalid is the descriptor every failed lookup resolves to.
var invalid = &FunctionInfo{}

// Invalid returns the shared "not a builtin" descriptor.
func Invalid() *FunctionInfo { return invalid }

func (fi *FunctionInfo) IsValid() bool { return fi.valid }

// Category returns the kind together with its name-encoded modifiers.
func (fi *FunctionInfo) Category() catalog.Category { return fi.category }

// Kind is shorthand for Category().Kind.
func (fi *FunctionInfo) Kind() catalog.Kind { return fi.category.Kind }

// Name is the unmangled base identifier, e.g. "convert_uchar4_sat".
func (fi *FunctionInfo) Name() string { return fi.name }

// ReturnType is set for conversions and reinterpretations, whose
// destination type is spelled in the name. It is the zero value otherwise.
func (fi *FunctionInfo) ReturnType() types.ParamTypeInfo { return fi.returnType }

func (fi *FunctionInfo) ParameterCount() int { return len(fi.params) }

// Parameter returns the i-th declared parameter. Callers must check
// ParameterCount first; an out-of-range index panics.
func (fi *FunctionInfo) Parameter(i int) types.ParamTypeInfo {
	if i < 0 || i >= len(fi.params) {
		panic(fmt.Sprintf("builtins: parameter %d out of range for %s with %d parameters", i, fi.describe(), len(fi.params)))
	}
	return fi.params[i]
}

// Parameters returns a copy of the parameter list.
func (fi *FunctionInfo) Parameters() []types.ParamTypeInfo {
	if len(fi.params) == 0 {
		return nil
	}
	out := make([]types.ParamTypeInfo, len(fi.params))
	copy(out, fi.params)
	return out
}

func (fi *FunctionInfo) describe() string {
	if !fi.valid {
		return "invalid builtin"
	}
	return fi.name
}

// String renders "name(param, ...) -> ret [category]".
func (fi *FunctionInfo) String() string {
	if !fi.valid {
		return "<not a builtin>"
	}
	var sb strings.Builder
	sb.WriteString(fi.name)
	sb.WriteByte('(')
	for i, p := range fi.params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteByte(')')
	if fi.category.Kind.EncodesReturnType() {
		sb.WriteString(" -> ")
		sb.WriteString(fi.returnType.String())
	}
	sb.WriteString(" [")
	sb.WriteString(fi.category.String())
	sb.WriteByte(']')
	return sb.String()
}
