package diag

import "fmt"

// Diagnostic records why one symbol did not resolve to a builtin.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Symbol   string
	Line     int // input line the symbol came from, 0 when unknown
	Offset   int // byte offset into Symbol, -1 when not applicable
	Message  string
}

func (d Diagnostic) String() string {
	if d.Offset >= 0 {
		return fmt.Sprintf("%s %s at %d: %s", d.Code.ID(), d.Symbol, d.Offset, d.Message)
	}
	return fmt.Sprintf("%s %s: %s", d.Code.ID(), d.Symbol, d.Message)
}
