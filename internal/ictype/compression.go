package ictype

// Compression identifies the compression method tag stored in front of a packed block.
type Compression uint8

const (
	CompressionNone    Compression = 0
	CompressionDeflate Compression = 1
	CompressionBzip2   Compression = 2
)

// String returns the human-readable name of the compression method.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionDeflate:
		return "deflate"
	case CompressionBzip2:
		return "bzip2"
	default:
		return "unknown"
	}
}
