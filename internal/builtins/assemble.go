package builtins

import (
	"errors"
	"fmt"

	"kernelsym/internal/catalog"
	"kernelsym/internal/classify"
	"kernelsym/internal/diag"
	"kernelsym/internal/mangle"
	"kernelsym/internal/types"
)

// samplerType is the opaque handle whose presence makes an image read sampled.
const samplerType = "ocl_sampler"

// ErrNotBuiltin reports a symbol that decodes but matches no catalog entry.
var ErrNotBuiltin = errors.New("not a builtin")

// ReturnTypeError reports a conversion whose destination type could not be
// read back from its name, e.g. "convert_quux4".
type ReturnTypeError struct {
	Name     string // base identifier
	TypeName string // the spelling that failed to parse
	Err      error
}

func (e *ReturnTypeError) Error() string {
	return fmt.Sprintf("builtins: %s: cannot derive return type from %q: %v", e.Name, e.TypeName, e.Err)
}

func (e *ReturnTypeError) Unwrap() error { return e.Err }

// Code is the diagnostic code reported for this failure.
func (e *ReturnTypeError) Code() diag.Code { return diag.RetUnparsable }

// Assemble combines a decoded symbol with its classification. On failure
// it returns the shared invalid descriptor together with the reason.
func Assemble(sym mangle.Symbol, m classify.Match) (*FunctionInfo, error) {
	cat := m.Category
	if cat.IsNone() {
		return invalid, ErrNotBuiltin
	}
	fi := &FunctionInfo{valid: true, name: sym.Name}
	if len(sym.Params) > 0 {
		fi.params = make([]types.ParamTypeInfo, len(sym.Params))
		copy(fi.params, sym.Params)
	}

	if cat.Kind.EncodesReturnType() {
		rt, err := types.ParseScalarName(m.Suffix.TypeName)
		if err != nil {
			return invalid, &ReturnTypeError{Name: sym.Name, TypeName: m.Suffix.TypeName, Err: err}
		}
		fi.returnType = rt
		cat.Lanes = rt.VectorWidth
	}

	if cat.Kind == catalog.KindImageRead {
		cat.Kind = catalog.KindImageReadUnsampled
		if hasSampler(fi.params) {
			cat.Kind = catalog.KindImageReadSampled
		}
	}
	fi.category = cat
	return fi, nil
}

func hasSampler(params []types.ParamTypeInfo) bool {
	for _, p := range params {
		if p.Kind == types.KindOpaque && p.StructName == samplerType {
			return true
		}
	}
	return false
}

// CodeOf maps a lookup failure to its diagnostic code.
func CodeOf(err error) diag.Code {
	var decErr *mangle.DecodeError
	var retErr *ReturnTypeError
	switch {
	case err == nil:
		return diag.UnknownCode
	case errors.As(err, &decErr):
		return decErr.Code
	case errors.As(err, &retErr):
		return retErr.Code()
	case errors.Is(err, ErrNotBuiltin):
		return diag.ClsNotBuiltin
	}
	return diag.UnknownCode
}
