package icextract

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/meigma/icextract/internal/block"
	"github.com/meigma/icextract/internal/codec"
	"github.com/meigma/icextract/internal/filelist"
	"github.com/meigma/icextract/internal/scan"
	"github.com/meigma/icextract/internal/sink"
	"github.com/meigma/icextract/internal/source"
)

// Installer is an opened installer. Close must be called to release file
// resources.
type Installer struct {
	path      string
	file      File
	source    *source.MultiSource
	decoder   *codec.Decoder
	logger    *slog.Logger
	version   Version
	nodeCount int
	records   []FileRecord
	blocks    []BlockInfo
}

// Open reads the data section of the installer at path, assembles its
// payload stream and decodes the file list.
//
// Continuation files named after the installer (path without extension
// plus .D01, .D02, ...) are picked up automatically.
func Open(path string, opts ...Option) (*Installer, error) {
	cfg := newConfig(opts)
	logger := cfg.logger

	f, err := cfg.fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open installer: %w", err)
	}
	inst, err := open(path, f, &cfg)
	if err != nil {
		_ = f.Close() //nolint:errcheck // best-effort cleanup
		return nil, err
	}
	logger.Info("installer opened",
		"version", inst.version.String(), "files", len(inst.records), "nodes", inst.nodeCount,
		"payload", inst.source.Size())
	return inst, nil
}

func open(path string, f File, cfg *config) (*Installer, error) {
	logger := cfg.logger
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat installer: %w", err)
	}
	size := info.Size()
	rs := io.NewSectionReader(f, 0, size)

	sigEnd, err := scan.Find(rs, scan.DataSectionSignature)
	if err != nil {
		return nil, err
	}
	logger.Info("found data section", "offset", sigEnd-int64(len(scan.DataSectionSignature)))

	decoder := codec.NewDecoder(codec.WithMaxSize(cfg.maxFileSize), codec.WithLogger(logger))
	walkOpts := []block.Option{block.WithLogger(logger)}
	parseOpts := []filelist.Option{filelist.WithVersion(cfg.version), filelist.WithLogger(logger)}
	if cfg.dump != nil {
		dumper := sink.BlockDumper{Sink: cfg.dump}
		walkOpts = append(walkOpts, block.WithDumper(dumper))
		parseOpts = append(parseOpts, filelist.WithDumper(dumper))
	}
	if cfg.encodingSet {
		parseOpts = append(parseOpts, filelist.WithEncoding(cfg.encoding))
	}

	sec, err := block.NewWalker(decoder, walkOpts...).Walk(rs, size)
	if err != nil {
		return nil, err
	}

	parts, err := source.Discover(cfg.fsys, path)
	if err != nil {
		return nil, err
	}
	var primary *source.Primary
	if sec.HasData() {
		primary = &source.Primary{Name: path, Reader: f, Pos: sec.DataPos, Size: sec.DataSize}
	}
	ms, err := source.Open(primary, parts, source.WithFileSystem(cfg.fsys), source.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	list, err := filelist.NewParser(parseOpts...).Parse(sec.FileList, ms.Size())
	if err != nil {
		_ = ms.Close() //nolint:errcheck // best-effort cleanup
		return nil, err
	}

	return &Installer{
		path:      path,
		file:      f,
		source:    ms,
		decoder:   decoder,
		logger:    logger,
		version:   list.Version,
		nodeCount: list.NodeCount,
		records:   list.Records,
		blocks:    sec.Blocks,
	}, nil
}

// Path returns the path the installer was opened from.
func (in *Installer) Path() string {
	return in.path
}

// Version returns the record schema in use.
func (in *Installer) Version() Version {
	return in.version
}

// Records returns the regular file records in list order.
func (in *Installer) Records() []FileRecord {
	return in.records
}

// NodeCount returns the number of nodes declared by the file list,
// including directories and other non-file nodes.
func (in *Installer) NodeCount() int {
	return in.nodeCount
}

// DataSize returns the length of the logical payload stream.
func (in *Installer) DataSize() int64 {
	return in.source.Size()
}

// Blocks returns the headers of every block in the data section.
func (in *Installer) Blocks() []BlockInfo {
	return in.blocks
}

// Parts returns the files backing the payload stream, in order.
func (in *Installer) Parts() []string {
	return in.source.Parts()
}

// Close releases the installer and its continuation files.
func (in *Installer) Close() error {
	if in.file == nil {
		return nil
	}
	err := errors.Join(in.source.Close(), in.file.Close())
	in.file = nil
	return err
}
