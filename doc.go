// Package icextract extracts the files stored in installers produced by
// Clickteam Install Creator.
//
// An installer is a Windows executable with a data section appended to it.
// The data section is a sequence of tagged blocks: a compressed file list
// describing every installed file, and a file data block holding the packed
// file contents. Large installers continue the file data in numbered files
// next to the executable (setup.D01, setup.D02, ...).
//
// # Quick Start
//
// Open an installer and extract everything below a directory:
//
//	inst, err := icextract.Open("setup.exe")
//	if err != nil {
//	    return err
//	}
//	defer inst.Close()
//
//	stats, err := inst.ExtractTo(ctx, icextract.DefaultOutputDir("setup.exe"))
//
// # Record schemas
//
// The file list has no version field. Four record layouts are known (20, 30,
// 35 and 40, after the tool releases that introduced them) and Open selects
// one by decoding the whole list under each candidate, newest first. When the
// guess is wrong, pin the schema with [WithVersion].
//
// # Failures
//
// Errors that make the installer unreadable are returned from [Open]. A file
// that cannot be decompressed during extraction is logged and counted in
// [ExtractStats]; only when every file fails does [Installer.Extract] return
// [ErrExtractionFailed], which usually means the installer is encrypted.
package icextract
