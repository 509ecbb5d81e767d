// Package textbuf provides the shared, append-only text buffer that backs
// macro definitions and cursor views.
//
// A Buffer never shrinks or rewrites existing bytes. That contract is what
// allows a macro definition to keep a zero-copy Span into the buffer its
// body was read from, while other cursors continue to scan or extend the
// same buffer.
package textbuf
