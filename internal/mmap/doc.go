// Package mmap maps corpus files read-only into memory.
//
// A book file is read once, front to back, by the corpus decoder. Mapping it
// avoids a second in-heap copy of the compressed bytes, and the sequential
// access hint lets the kernel read ahead aggressively.
//
//	m, err := mmap.Open("book.json.zst", mmap.AccessSequential)
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes() // valid until Close
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) for access hints
//   - Windows: CreateFileMapping/MapViewOfFile; access hints are ignored
//
// Close is idempotent. Callers must not touch Bytes after Close returns.
package mmap
