// Package ictype defines shared types used across the icextract package and its
// internal packages. This avoids circular imports between icextract and the
// decoding packages under internal/.
package ictype

import "errors"

// Sentinel errors for installer decoding and extraction.
var (
	// ErrSignatureNotFound is returned when no data section signature exists in the input.
	ErrSignatureNotFound = errors.New("icextract: data section signature not found")

	// ErrFileListMissing is returned when the data section holds no file list block.
	ErrFileListMissing = errors.New("icextract: file list block missing")

	// ErrUnsupportedVersion is returned when no known record schema fits the file list.
	ErrUnsupportedVersion = errors.New("icextract: unsupported installer version")

	// ErrDataAreaMissing is returned when there is neither a file data block
	// nor an external continuation file.
	ErrDataAreaMissing = errors.New("icextract: file data area missing")

	// ErrRecordInvalid is returned when a record fails validation under the committed schema.
	ErrRecordInvalid = errors.New("icextract: invalid file record")

	// ErrUnknownCodec is returned for an unrecognised compression method tag.
	// The data is most likely encrypted.
	ErrUnknownCodec = errors.New("icextract: unknown compression method")

	// ErrDecompression is returned when decompression fails.
	ErrDecompression = errors.New("icextract: decompression failed")

	// ErrSizeOverflow is returned when byte counts exceed supported limits.
	ErrSizeOverflow = errors.New("icextract: size overflow")

	// ErrExtractionFailed is returned when every record failed to extract.
	// The installer is either encrypted or a variant that is not supported.
	ErrExtractionFailed = errors.New("icextract: extraction failed, installer is likely encrypted or unsupported")
)
