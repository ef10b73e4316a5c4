package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for expected outcomes, e.g. an ordinary non-builtin call.
	SevInfo Severity = iota
	// SevWarning is for symbols that look like builtins but do not resolve.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// SeverityOf returns the default severity for a code.
func SeverityOf(c Code) Severity {
	switch {
	case c == ClsNotBuiltin:
		return SevInfo
	case c == RetUnparsable:
		return SevWarning
	}
	return SevError
}
