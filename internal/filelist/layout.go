package filelist

// On-disk record layouts, decoded with restruct. Reserved ranges are kept
// as byte arrays and never interpreted.

// prefix16 starts every record of schemas 20 and 30.
type prefix16 struct {
	Size uint16
	Kind uint16
}

// prefix32 starts every record of schemas 35 and 40.
type prefix32 struct {
	Size uint32
	Kind uint16
}

// fileTimes holds the three FILETIME stamps that close every regular record.
type fileTimes struct {
	Modified int64
	Accessed int64
	Created  int64
}

type body20 struct {
	Reserved         [2]byte
	Offset           uint32
	CompressedSize   uint32
	Unknown          uint32
	UncompressedSize uint32
	Reserved2        [16]byte
	Times            fileTimes
}

type body30 struct {
	Reserved         [2]byte
	Offset           uint32
	CompressedSize   uint32
	Unknown          uint32
	UncompressedSize uint32
	Reserved2        [18]byte
	Index            uint32
	Times            fileTimes
}

// markerHead precedes the body of schemas 35 and 40. A marker of
// dummyMarker flags an empty placeholder file without sizes or times.
type markerHead struct {
	Reserved [3]byte
	Marker   uint8
}

type body35 struct {
	Reserved         [2]byte
	Offset           uint32
	CompressedSize   uint32
	Unknown          uint32
	UncompressedSize uint32
	Reserved2        [8]byte
	Index            uint32
	Times            fileTimes
}

type body40 struct {
	Reserved         [14]byte
	UncompressedSize uint32
	Offset           uint32
	CompressedSize   uint32
	Reserved2        [4]byte
	Times            fileTimes
}

const (
	prefix16Size   = 4
	prefix32Size   = 6
	markerHeadSize = 4
	body20Size     = 58
	body30Size     = 64
	body35Size     = 54
	body40Size     = 54

	// dummyMarker flags an empty dummy file; dummySkip bytes follow it.
	dummyMarker = 0xE2
	dummySkip   = 30
)
