// Package extract pulls named JSON literals out of JavaScript source text.
//
// The accepted layout is one declaration per statement:
//
//	export const NAME = <JSON value>;
//
// The declaration must start a line, the value may span several lines and
// must be valid JSON, and the statement is closed by the first ';' that
// follows the complete value. Each lookup yields a tagged Result so callers
// can tell a missing declaration from a malformed one.
package extract
