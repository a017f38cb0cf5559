// Package jasm is the textual output sink: a Jasmin-syntax assembly
// writer. Jasmin syntax is a textual, one-instruction-per-line assembly
// language for class files, with ".directive" lines for structural
// declarations, "name:" label lines, and tab-prefixed mnemonic lines.
package jasm

import (
	"bytes"
	"fmt"
)

// Writer accumulates Jasmin-syntax text. It owns no file handle; callers
// drain Bytes()/String() into whatever sink the host front-end chose.
type Writer struct {
	buf bytes.Buffer
}

// Directive emits a "." structural line, e.g. Directive("class public final %s", name).
func (w *Writer) Directive(format string, args ...any) {
	fmt.Fprintf(&w.buf, "."+format+"\n", args...)
}

// Label emits a bare "name:" line with no leading tab.
func (w *Writer) Label(name string) {
	fmt.Fprintf(&w.buf, "%s:\n", name)
}

// Insn emits a tab-prefixed mnemonic line.
func (w *Writer) Insn(format string, args ...any) {
	fmt.Fprintf(&w.buf, "\t"+format+"\n", args...)
}

// Comment emits a ";"-prefixed annotation line, used by the debug
// annotation levels.
func (w *Writer) Comment(format string, args ...any) {
	fmt.Fprintf(&w.buf, ";"+format+"\n", args...)
}

// Blank emits an empty line, used between module sections and between
// method bodies.
func (w *Writer) Blank() {
	w.buf.WriteByte('\n')
}

// Raw writes s verbatim, with no added newline or indentation.
func (w *Writer) Raw(s string) {
	w.buf.WriteString(s)
}

// Bytes returns the accumulated text.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// String returns the accumulated text.
func (w *Writer) String() string { return w.buf.String() }
