package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Decode failures: the symbol does not follow the mangling grammar.
	DecTruncated       Code = 1001
	DecBadLength       Code = 1002
	DecBadIdentifier   Code = 1003
	DecUnknownType     Code = 1004
	DecBadVector       Code = 1005
	DecBadSubst        Code = 1006
	DecUnsupported     Code = 1007
	DecMisplacedVoid   Code = 1008
	DecBadQualifier    Code = 1009
	DecEmptyIdentifier Code = 1010

	// Classification misses: well-formed symbol, not in the catalog.
	ClsNotBuiltin Code = 2001

	// Return types encoded in builtin names.
	RetUnparsable Code = 3001

	// Catalog and configuration loading.
	CatInvalid     Code = 4001
	CatUnknownKind Code = 4002
	CatDuplicate   Code = 4003
	CatBadSuffix   Code = 4004
	CatBadSnapshot Code = 4005
	CfgInvalid     Code = 5001
	CfgUnknownKey  Code = 5002
)

var codeDescription = map[Code]string{
	UnknownCode:        "Unknown error",
	DecTruncated:       "Truncated symbol",
	DecBadLength:       "Malformed length prefix",
	DecBadIdentifier:   "Invalid identifier character",
	DecUnknownType:     "Unknown type code",
	DecBadVector:       "Malformed vector type",
	DecBadSubst:        "Unresolved back-reference",
	DecUnsupported:     "Unsupported mangling construct",
	DecMisplacedVoid:   "Void parameter mixed with other parameters",
	DecBadQualifier:    "Malformed type qualifier",
	DecEmptyIdentifier: "Empty identifier",
	ClsNotBuiltin:      "Not a builtin",
	RetUnparsable:      "Return type encoded in name cannot be parsed",
	CatInvalid:         "Invalid catalog",
	CatUnknownKind:     "Unknown builtin category",
	CatDuplicate:       "Duplicate catalog entry",
	CatBadSuffix:       "Unknown suffix class",
	CatBadSnapshot:     "Incompatible catalog snapshot",
	CfgInvalid:         "Invalid configuration",
	CfgUnknownKey:      "Unknown configuration key",
}

// ID returns the stable textual identifier of the code, e.g. "DEC1004".
func (c Code) ID() string {
	ic := int(c)
	switch {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("DEC%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("CLS%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("RET%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("CAT%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

// IsDecode reports whether the code belongs to the decode-failure group.
func (c Code) IsDecode() bool {
	return c >= 1000 && c < 2000
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
