package icextract

import (
	"context"
	_ "crypto/sha256" // registers SHA-256 for go-digest
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/icextract/internal/ictype"
	"github.com/meigma/icextract/internal/pathutil"
	"github.com/meigma/icextract/internal/sink"
	"github.com/meigma/icextract/internal/sizing"
	"github.com/meigma/icextract/internal/source"
)

// recordOverhead is counted in a record's compressed size but not in the
// size of the block the codec reads.
const recordOverhead = 7

// ExtractStats contains statistics from an extraction.
type ExtractStats struct {
	// Extracted is the number of files written to the sink.
	Extracted int

	// Skipped is the number of files the sink declined (ShouldProcess returned false).
	Skipped int

	// Failed is the number of files that could not be decoded or written.
	Failed int

	// TotalBytes is the sum of the sizes of all extracted files.
	TotalBytes uint64

	// Files lists the extracted files in list order.
	Files []ExtractedFile
}

// ExtractedFile describes one file written to the sink.
type ExtractedFile struct {
	Path   string
	Size   uint64
	Digest digest.Digest
}

// DefaultOutputDir returns the directory an installer is extracted to when
// none is given: the installer's directory joined with its base name without
// extension.
func DefaultOutputDir(installerPath string) string {
	base := filepath.Base(installerPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == base || name == "" {
		name = base + "_extracted"
	}
	return filepath.Join(filepath.Dir(installerPath), name)
}

// ExtractTo extracts every file below dir.
func (in *Installer) ExtractTo(ctx context.Context, dir string, opts ...ExtractOption) (ExtractStats, error) {
	return in.Extract(ctx, sink.NewFileSink(dir, opts...))
}

// Extract decodes every file record and writes the content to s.
//
// Records are processed in list order. A record that cannot be decoded or
// written is logged and counted as failed; extraction continues with the
// next one. If every record fails, ErrExtractionFailed is returned. ctx is
// checked between records.
func (in *Installer) Extract(ctx context.Context, s Sink) (ExtractStats, error) {
	var stats ExtractStats
	for i := range in.records {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		rec := &in.records[i]

		name, ok := pathutil.Sanitize(rec.Path)
		if !ok {
			in.logger.Warn("file has no usable path", "index", i, "path", rec.Path)
			stats.Failed++
			continue
		}
		entry := &sink.Entry{
			Path:     name,
			Size:     uint64(rec.UncompressedSize),
			Modified: rec.Modified,
			Accessed: rec.Accessed,
			Created:  rec.Created,
		}
		if !s.ShouldProcess(entry) {
			in.logger.Info("skipping file", "path", name)
			stats.Skipped++
			continue
		}

		content, err := in.ReadRecord(rec)
		if err != nil {
			in.logger.Warn("failed to extract file", "path", rec.Path, "offset", rec.Offset,
				"compressed", rec.CompressedSize, "size", rec.UncompressedSize, "error", err)
			stats.Failed++
			continue
		}
		if err := sink.Write(s, entry, content); err != nil {
			in.logger.Warn("failed to write file", "path", name, "error", err)
			stats.Failed++
			continue
		}

		in.logger.Debug("extracted file", "path", name, "size", len(content))
		stats.Extracted++
		stats.TotalBytes += entry.Size
		stats.Files = append(stats.Files, ExtractedFile{
			Path:   name,
			Size:   entry.Size,
			Digest: digest.FromBytes(content),
		})
	}

	if n := len(in.records); n > 0 && stats.Failed == n {
		return stats, ErrExtractionFailed
	}
	if stats.Failed > 0 {
		in.logger.Warn("some files could not be extracted, the installer might be corrupt or encrypted",
			"failed", stats.Failed, "total", len(in.records))
	}
	return stats, nil
}

// ReadRecord decodes the content of rec from the payload stream.
// Empty files are returned without touching the stream.
func (in *Installer) ReadRecord(rec *FileRecord) ([]byte, error) {
	if rec.UncompressedSize == 0 {
		return []byte{}, nil
	}
	blockSize, ok := sizing.SubUint32(rec.CompressedSize, recordOverhead)
	if !ok {
		return nil, fmt.Errorf("%w: compressed size %d too small", ictype.ErrDecompression, rec.CompressedSize)
	}
	// The method tag and payload span blockSize minus the 4-byte size field
	// that records do not store.
	span := max(int64(blockSize)-4, 1)
	r := io.NewSectionReader(in.source, int64(rec.Offset)+source.PartHeaderSize, span)
	return in.decoder.UnpackSized(r, blockSize, rec.UncompressedSize)
}
