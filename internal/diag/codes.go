package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// I/O
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001

	// Assembly descriptor / configuration
	CfgInfo               Code = 5000
	CfgDuplicateModule    Code = 5001
	CfgDuplicateResource  Code = 5002
	CfgUnknownMarker      Code = 5003
	CfgDuplicateType      Code = 5004
	CfgEmptyResourceName  Code = 5005
	CfgResourceFileAbsent Code = 5006

	// Emission
	EmitInfo             Code = 6000
	EmitTypeReserved     Code = 6001 // user declares a type under a reserved marker name
	EmitUseSiteError     Code = 6002 // synthesized type depends on something unresolved
	EmitCryptoHashFailed Code = 6003 // configured hash algorithm is unsupported
	EmitBindToBogus      Code = 6004 // secondary module image is malformed
)

var (
	codeDescription = map[Code]string{
		UnknownCode:           "Unknown error",
		IOInfo:                "I/O information",
		IOLoadFileError:       "I/O load file error",
		CfgInfo:               "Descriptor information",
		CfgDuplicateModule:    "Secondary module listed more than once",
		CfgDuplicateResource:  "Resource name is not unique",
		CfgUnknownMarker:      "Unknown marker kind",
		CfgDuplicateType:      "Type declared more than once",
		CfgEmptyResourceName:  "Resource name is empty",
		CfgResourceFileAbsent: "Linked resource file is missing",
		EmitInfo:              "Emission information",
		EmitTypeReserved:      "Type name is reserved for compiler use",
		EmitUseSiteError:      "Required type or member could not be resolved",
		EmitCryptoHashFailed:  "Hash algorithm is not supported",
		EmitBindToBogus:       "Cannot bind to malformed module",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("EMT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
