package fastscope

import "unsafe"

// s2b converts string to a byte slice without memory allocation.
//
// The returned slice must not be modified.
func s2b(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
