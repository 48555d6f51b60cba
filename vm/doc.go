// Package vm interprets JVM class files restricted to a small value model:
// slots and operand-stack entries hold Uninitialized, Null or a 64-bit
// Integer.
//
// A Runtime owns the loaded classes and a per-class SymbolTable. Classes
// referenced by invokestatic but not loaded are asked of the Runtime's
// Loader, if it has one. Run finds main on the entry class and interprets
// it. Each call gets its own Frame and recurses on the Go stack, bounded by
// MaxCallDepth. Every failure stops the whole run and is returned as a
// *RuntimeError naming the class, method and instruction where it happened;
// errors.Is matches the sentinel errors declared in this package.
//
// long and double parameters take one local slot each, not the two the
// class-file format assigns them, so later parameters sit one slot lower.
package vm
