// Package filesystem provides a read-only corpus backed by a directory of
// plain text, markdown and PDF files.
//
// Every supported file below the root becomes one document. The document
// ID is the slash-separated path relative to the root, the title is the
// file name without its extension and CreatedAt is the modification time.
// Hidden files and directories are skipped. Documents are returned in ID
// order.
//
// Watch keeps the snapshot current by reloading whenever fsnotify reports
// a change below the root.
package filesystem
