// Package tcs implements TurtlicoScript, the language behind the Turtlico
// visual programming editor. Programs are written either as text or as a
// sequence of tokens placed as blocks in the editor; both forms produce the
// same tree:
//   - Variables `$name`, object fields `$obj.$field` and methods `$obj.name(...)`.
//   - Calls `name(a, b)` and the shortcall forms `name 5`, `name $x` and `name`.
//   - Int, float, string, image (`i"..."`) and key (`k"..."`) literals, and
//     object literals `{ "key": value }`.
//   - Arithmetic and comparison operators (+, -, *, /, ==, !=, <, >, <=, >=).
//   - Control flow: if, loop (counted and infinite), for, while, fn, return
//     and break.
//
// Comments begin with `#`. Newlines and `;` are tokens of their own so the
// editor can show them as blocks; the parser treats them as layout. Native
// functionality is added through libraries imported into a Context; the
// standard library is always present.
package tcs
