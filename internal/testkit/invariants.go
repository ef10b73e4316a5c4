package testkit

import (
	"fmt"

	"kernelsym/internal/builtins"
	"kernelsym/internal/catalog"
)

// CheckInfoInvariants runs the descriptor invariants on fi:
// 1) an invalid descriptor is empty: no category, name or parameters
// 2) a valid descriptor has a category and a name
// 3) every parameter, and the return type of name-encoded families,
// passes ParamTypeInfo.Validate
// 4) image reads are always split into sampled or unsampled
func CheckInfoInvariants(fi *builtins.FunctionInfo) error {
	if fi == nil {
		return fmt.Errorf("nil descriptor")
	}
	if !fi.IsValid() {
		if !fi.Category().IsNone() || fi.Name() != "" || fi.ParameterCount() != 0 {
			return fmt.Errorf("invalid descriptor is not empty: %s", fi.Category())
		}
		return nil
	}

	if fi.Category().IsNone() {
		return fmt.Errorf("valid descriptor %q without category", fi.Name())
	}
	if fi.Name() == "" {
		return fmt.Errorf("valid descriptor without name")
	}
	for i := range fi.ParameterCount() {
		if err := fi.Parameter(i).Validate(); err != nil {
			return fmt.Errorf("%s: param %d: %w", fi.Name(), i, err)
		}
	}
	if fi.Kind().EncodesReturnType() {
		if err := fi.ReturnType().Validate(); err != nil {
			return fmt.Errorf("%s: return type: %w", fi.Name(), err)
		}
	}
	if fi.Kind() == catalog.KindImageRead {
		return fmt.Errorf("%s: image read not split by sampler", fi.Name())
	}
	return nil
}
