package mangle

import (
	"fmt"

	"fortio.org/safecast"

	"kernelsym/internal/diag"
	"kernelsym/internal/types"
)

// qualifiers are the CV and vendor qualifiers attached to a type.
type qualifiers struct {
	constQ    bool
	volatileQ bool
	restrictQ bool
	space     string // vendor qualifier name, e.g. "AS1"
}

func (q qualifiers) empty() bool {
	return !q.constQ && !q.volatileQ && !q.restrictQ && q.space == ""
}

// node is a decoded type together with the pointer and qualifier details
// that ParamTypeInfo does not carry. Substitutions store nodes so that a
// back-reference reproduces the original type exactly.
type node struct {
	info     types.ParamTypeInfo
	pointers uint8
	quals    qualifiers
}

func (n node) isBareVoid() bool {
	return n.info.Kind == types.KindVoid && n.pointers == 0 && n.quals.empty()
}

type wrapKind uint8

const (
	wrapPointer wrapKind = iota + 1
	wrapQualified
	wrapVector
)

// wrapper is a pending type constructor waiting for its operand.
type wrapper struct {
	kind   wrapKind
	offset int
	lanes  int
	quals  qualifiers
}

type decoder struct {
	data  string
	pos   int
	subst []node
	stack []wrapper
}

func newDecoder(data string) *decoder {
	return &decoder{
		data:  data,
		subst: make([]node, 0, 8),
		stack: make([]wrapper, 0, 4),
	}
}

func (d *decoder) eof() bool {
	return d.pos >= len(d.data)
}

func (d *decoder) peek() byte {
	if d.eof() {
		return 0
	}
	return d.data[d.pos]
}

func (d *decoder) peekAt(off int) byte {
	if d.pos+off >= len(d.data) {
		return 0
	}
	return d.data[d.pos+off]
}

func (d *decoder) consume() byte {
	if d.eof() {
		return 0
	}
	b := d.data[d.pos]
	d.pos++
	return b
}

func (d *decoder) expect(b byte, code diag.Code) error {
	if d.eof() {
		return d.fail(diag.DecTruncated, fmt.Sprintf("expected %q", b))
	}
	if d.data[d.pos] != b {
		return d.fail(code, fmt.Sprintf("unexpected %q, expected %q", d.data[d.pos], b))
	}
	d.pos++
	return nil
}

func (d *decoder) fail(code diag.Code, detail string) *DecodeError {
	return &DecodeError{Code: code, Offset: d.pos, Detail: detail}
}

// readNumber reads a non-empty decimal number without leading zeros.
func (d *decoder) readNumber() (int, error) {
	if d.eof() {
		return 0, d.fail(diag.DecTruncated, "expected a number")
	}
	start := d.pos
	if d.data[start] == '0' {
		return 0, d.fail(diag.DecBadLength, "number with leading zero")
	}
	total := 0
	for !d.eof() && d.peek() >= '0' && d.peek() <= '9' {
		total = total*10 + int(d.consume()-'0')
		if total > len(d.data) {
			return 0, &DecodeError{Code: diag.DecBadLength, Offset: start, Detail: "number exceeds symbol length"}
		}
	}
	if d.pos == start {
		return 0, d.fail(diag.DecBadLength, fmt.Sprintf("unexpected %q, expected a number", d.peek()))
	}
	return total, nil
}

// sourceName reads <length><identifier>.
func (d *decoder) sourceName() (string, error) {
	n, err := d.readNumber()
	if err != nil {
		return "", err
	}
	if d.pos+n > len(d.data) {
		return "", d.fail(diag.DecTruncated, fmt.Sprintf("identifier of length %d runs past the end", n))
	}
	name := d.data[d.pos : d.pos+n]
	for i := 0; i < len(name); i++ {
		if !isIdentByte(name[i]) {
			return "", &DecodeError{
				Code:   diag.DecBadIdentifier,
				Offset: d.pos + i,
				Detail: fmt.Sprintf("byte %q in identifier", name[i]),
			}
		}
	}
	d.pos += n
	return name, nil
}

// parseType decodes one complete type. Prefix constructors (pointer,
// qualifiers, vector) are pushed onto an explicit stack until a terminal
// type is reached, then applied innermost first. Every constructed level
// becomes a substitution candidate in completion order.
func (d *decoder) parseType() (node, error) {
	base := len(d.stack)
	defer func() { d.stack = d.stack[:base] }()

	for {
		if d.eof() {
			return node{}, d.fail(diag.DecTruncated, "expected a type")
		}
		c := d.peek()
		switch {
		case c == 'P':
			d.stack = append(d.stack, wrapper{kind: wrapPointer, offset: d.pos})
			d.pos++
			continue
		case c == 'U' || c == 'r' || c == 'V' || c == 'K':
			offset := d.pos
			q, err := d.qualifiers()
			if err != nil {
				return node{}, err
			}
			d.stack = append(d.stack, wrapper{kind: wrapQualified, offset: offset, quals: q})
			continue
		case c == 'D' && d.peekAt(1) == 'v':
			offset := d.pos
			d.pos += 2
			lanes, err := d.readNumber()
			if err != nil {
				return node{}, &DecodeError{Code: diag.DecBadVector, Offset: offset, Detail: err.Error()}
			}
			if err := d.expect('_', diag.DecBadVector); err != nil {
				return node{}, err
			}
			d.stack = append(d.stack, wrapper{kind: wrapVector, offset: offset, lanes: lanes})
			continue
		}

		n, err := d.terminal()
		if err != nil {
			return node{}, err
		}
		for len(d.stack) > base {
			w := d.stack[len(d.stack)-1]
			d.stack = d.stack[:len(d.stack)-1]
			n, err = apply(w, n)
			if err != nil {
				return node{}, err
			}
			d.subst = append(d.subst, n)
		}
		return n, nil
	}
}

func apply(w wrapper, n node) (node, error) {
	switch w.kind {
	case wrapPointer:
		depth, err := safecast.Conv[uint8](int(n.pointers) + 1)
		if err != nil {
			return node{}, &DecodeError{Code: diag.DecUnsupported, Offset: w.offset, Detail: "pointer nesting too deep"}
		}
		return node{info: n.info, pointers: depth}, nil
	case wrapQualified:
		n.quals = w.quals
		return n, nil
	case wrapVector:
		info, err := n.info.Vector(w.lanes)
		if err != nil {
			return node{}, &DecodeError{Code: diag.DecBadVector, Offset: w.offset, Detail: err.Error()}
		}
		return node{info: info}, nil
	}
	return node{}, &DecodeError{Code: diag.UnknownCode, Offset: w.offset, Detail: "unknown wrapper"}
}

// qualifiers reads U<source-name> vendor qualifiers followed by r/V/K.
func (d *decoder) qualifiers() (qualifiers, error) {
	var q qualifiers
	for d.peek() == 'U' {
		d.pos++
		name, err := d.sourceName()
		if err != nil {
			return q, err
		}
		if q.space != "" {
			return q, d.fail(diag.DecBadQualifier, "more than one vendor qualifier")
		}
		q.space = name
	}
	for {
		switch d.peek() {
		case 'r':
			if q.restrictQ || q.volatileQ || q.constQ {
				return q, d.fail(diag.DecBadQualifier, "restrict out of order")
			}
			q.restrictQ = true
		case 'V':
			if q.volatileQ || q.constQ {
				return q, d.fail(diag.DecBadQualifier, "volatile out of order")
			}
			q.volatileQ = true
		case 'K':
			if q.constQ {
				return q, d.fail(diag.DecBadQualifier, "duplicate const")
			}
			q.constQ = true
		default:
			return q, nil
		}
		d.pos++
	}
}

// terminal decodes a builtin code, a named type or a back-reference.
func (d *decoder) terminal() (node, error) {
	c := d.peek()
	if c >= '1' && c <= '9' {
		name, err := d.sourceName()
		if err != nil {
			return node{}, err
		}
		n := node{info: types.MakeOpaque(name)}
		d.subst = append(d.subst, n)
		return n, nil
	}
	switch c {
	case 'S':
		return d.substitution()
	case 'D':
		if d.peekAt(1) == 'h' {
			d.pos += 2
			return node{info: types.MakeFloat(types.Width16)}, nil
		}
		return node{}, d.fail(diag.DecUnsupported, fmt.Sprintf("unsupported code D%c", d.peekAt(1)))
	case 'N', 'I', 'Z', 'F', 'A', 'M', 'T':
		return node{}, d.fail(diag.DecUnsupported, fmt.Sprintf("unsupported type construct %q", c))
	}
	info, ok := builtinCodes[c]
	if !ok {
		return node{}, d.fail(diag.DecUnknownType, fmt.Sprintf("unknown type code %q", c))
	}
	d.pos++
	return node{info: info}, nil
}

var builtinCodes = map[byte]types.ParamTypeInfo{
	'v': types.MakeVoid(),
	'b': types.MakeBool(),
	'c': types.MakeInt(types.Width8, true),
	'a': types.MakeInt(types.Width8, true),
	'h': types.MakeInt(types.Width8, false),
	's': types.MakeInt(types.Width16, true),
	't': types.MakeInt(types.Width16, false),
	'i': types.MakeInt(types.Width32, true),
	'j': types.MakeInt(types.Width32, false),
	'l': types.MakeInt(types.Width64, true),
	'm': types.MakeInt(types.Width64, false),
	'x': types.MakeInt(types.Width64, true),
	'y': types.MakeInt(types.Width64, false),
	'f': types.MakeFloat(types.Width32),
	'd': types.MakeFloat(types.Width64),
}

// substitution resolves S_ and S<seq-id>_ against the table. The seq-id is
// base 36 with digits 0-9 then A-Z; S_ is entry 0, S0_ entry 1 and so on.
func (d *decoder) substitution() (node, error) {
	start := d.pos
	d.pos++ // 'S'
	if d.eof() {
		return node{}, d.fail(diag.DecTruncated, "unterminated back-reference")
	}
	index := 0
	if d.peek() != '_' {
		if c := d.peek(); c >= 'a' && c <= 'z' {
			return node{}, &DecodeError{Code: diag.DecUnsupported, Offset: start, Detail: fmt.Sprintf("standard abbreviation S%c", c)}
		}
		seq := 0
		for !d.eof() && d.peek() != '_' {
			v, ok := base36(d.consume())
			if !ok {
				return node{}, &DecodeError{Code: diag.DecBadSubst, Offset: start, Detail: "invalid back-reference digit"}
			}
			seq = seq*36 + v
			if seq > len(d.data) {
				return node{}, &DecodeError{Code: diag.DecBadSubst, Offset: start, Detail: "back-reference index too large"}
			}
		}
		index = seq + 1
	}
	if err := d.expect('_', diag.DecBadSubst); err != nil {
		return node{}, err
	}
	if index >= len(d.subst) {
		return node{}, &DecodeError{
			Code:   diag.DecBadSubst,
			Offset: start,
			Detail: fmt.Sprintf("back-reference %d with %d entries", index, len(d.subst)),
		}
	}
	return d.subst[index], nil
}

func base36(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10, true
	}
	return 0, false
}
