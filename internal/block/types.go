// Package block walks the tagged, length-prefixed blocks of an installer data section.
package block

import "fmt"

// Type is the tag identifying the content of a block.
type Type uint16

// Known block types. Only FileList and FileData matter for extraction;
// the rest are auxiliary installer data kept opaque.
const (
	TypeFileList        Type = 0x143A
	TypeFileData        Type = 0x7F7F
	TypeStrings         Type = 0x143E
	TypeUnknownFont     Type = 0x1435
	TypeUnknownData     Type = 0x1436
	TypeBackgroundImage Type = 0x1437
	TypeUnknownNumbers  Type = 0x1444
	TypeRegistryChanges Type = 0x1445
	TypeUninstaller     Type = 0x143F
)

// String returns the block type name.
func (t Type) String() string {
	switch t {
	case TypeFileList:
		return "FILE_LIST"
	case TypeFileData:
		return "FILE_DATA"
	case TypeStrings:
		return "STRINGS"
	case TypeUnknownFont:
		return "UNKNOWN_FONT"
	case TypeUnknownData:
		return "UNKNOWN_DATA"
	case TypeBackgroundImage:
		return "BACKGROUND_IMAGE"
	case TypeUnknownNumbers:
		return "UNKNOWN_NUMBERS"
	case TypeRegistryChanges:
		return "REGISTRY_CHANGES"
	case TypeUninstaller:
		return "UNINSTALLER"
	default:
		return "UNKNOWN"
	}
}

// DumpName returns the file name used for the block in dump mode.
func (t Type) DumpName() string {
	return fmt.Sprintf("Block 0x%X %s.bin", uint16(t), t)
}

// Header is the decoded prefix of a block.
type Header struct {
	Type Type

	// Pos is the position of the first content byte, just after the decoded fields.
	Pos int64

	// Size is the declared content length. The next block starts at Pos+Size.
	Size uint32
}

// Next returns the position of the following block.
func (h Header) Next() int64 {
	return h.Pos + int64(h.Size)
}

// rawHeader is the on-disk layout of the decoded header fields.
type rawHeader struct {
	Type     uint16
	Reserved uint16
	Size     uint32
}
