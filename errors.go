package icextract

import "github.com/meigma/icextract/internal/ictype"

// Errors re-exported from ictype.
var (
	// ErrSignatureNotFound is returned when the input holds no data section.
	ErrSignatureNotFound = ictype.ErrSignatureNotFound

	// ErrFileListMissing is returned when the data section has no file list block.
	ErrFileListMissing = ictype.ErrFileListMissing

	// ErrUnsupportedVersion is returned when no known record schema fits the file list.
	ErrUnsupportedVersion = ictype.ErrUnsupportedVersion

	// ErrDataAreaMissing is returned when there is neither a file data block
	// nor a continuation file.
	ErrDataAreaMissing = ictype.ErrDataAreaMissing

	// ErrRecordInvalid is returned when a record fails validation under the chosen schema.
	ErrRecordInvalid = ictype.ErrRecordInvalid

	// ErrUnknownCodec is returned for an unknown compression method.
	ErrUnknownCodec = ictype.ErrUnknownCodec

	// ErrDecompression is returned when decompression fails.
	ErrDecompression = ictype.ErrDecompression

	// ErrSizeOverflow is returned when a size value overflows or exceeds the configured limit.
	ErrSizeOverflow = ictype.ErrSizeOverflow

	// ErrExtractionFailed is returned when no file could be extracted.
	ErrExtractionFailed = ictype.ErrExtractionFailed
)
