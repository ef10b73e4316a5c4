package mangle

import (
	"fmt"
	"strings"

	"kernelsym/internal/diag"
	"kernelsym/internal/types"
)

// Symbol is the decoded form of an encoded function name.
type Symbol struct {
	Name   string
	Params []types.ParamTypeInfo
}

// DecodeError reports why a symbol does not follow the grammar.
type DecodeError struct {
	Code   diag.Code
	Offset int
	Detail string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("mangle: %s at offset %d: %s", strings.ToLower(e.Code.Title()), e.Offset, e.Detail)
}

// Decode parses raw into a base identifier and parameter descriptors.
// Names without the "_Z" prefix are taken verbatim with no parameters.
// Malformed input is reported as a *DecodeError; Decode never panics.
func Decode(raw string) (Symbol, error) {
	if !strings.HasPrefix(raw, "_Z") {
		return decodeUnmangled(raw)
	}
	d := newDecoder(raw)
	d.pos = 2
	if d.eof() {
		return Symbol{}, d.fail(diag.DecTruncated, "missing function name")
	}
	switch d.peek() {
	case 'N':
		return Symbol{}, d.fail(diag.DecUnsupported, "nested names are not used by builtins")
	case 'L', 'S', 'Z':
		return Symbol{}, d.fail(diag.DecUnsupported, fmt.Sprintf("unsupported name prefix %q", d.peek()))
	}
	name, err := d.sourceName()
	if err != nil {
		return Symbol{}, err
	}
	if !d.eof() && d.peek() == 'I' {
		return Symbol{}, d.fail(diag.DecUnsupported, "template arguments are not used by builtins")
	}
	params, err := d.params()
	if err != nil {
		return Symbol{}, err
	}
	return Symbol{Name: name, Params: params}, nil
}

func decodeUnmangled(raw string) (Symbol, error) {
	if raw == "" {
		return Symbol{}, &DecodeError{Code: diag.DecEmptyIdentifier, Offset: 0, Detail: "empty symbol"}
	}
	for i := 0; i < len(raw); i++ {
		if !isIdentByte(raw[i]) {
			return Symbol{}, &DecodeError{
				Code:   diag.DecBadIdentifier,
				Offset: i,
				Detail: fmt.Sprintf("byte %q in unmangled name", raw[i]),
			}
		}
	}
	return Symbol{Name: raw}, nil
}

// params decodes the parameter list that follows the function name.
func (d *decoder) params() ([]types.ParamTypeInfo, error) {
	if d.eof() {
		return nil, nil
	}
	if d.peek() == 'v' && d.pos+1 == len(d.data) {
		d.pos++
		return nil, nil
	}
	var out []types.ParamTypeInfo
	for !d.eof() {
		start := d.pos
		n, err := d.parseType()
		if err != nil {
			return nil, err
		}
		if n.isBareVoid() {
			return nil, &DecodeError{Code: diag.DecMisplacedVoid, Offset: start, Detail: "void is only valid as the sole parameter"}
		}
		out = append(out, n.info)
	}
	return out, nil
}

// isIdentByte is the alphabet of source names and unmangled symbols.
func isIdentByte(b byte) bool {
	return b == '_' || b == '.' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
