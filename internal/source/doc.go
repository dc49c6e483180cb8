// Package source loads test files and exposes their 1-indexed line table.
//
// The line table mirrors what diagnostics print: Lines[0] is an empty
// placeholder so that Lines[n] is the raw text of source line n.
//
// Content is read whole, a leading UTF-8 BOM is dropped and CRLF line
// endings are folded to LF before the table is built. Invalid UTF-8 is
// rejected at load time.
package source
