// Package ast defines the instruction model produced by the tokenizer.
//
// Instructions and arguments are immutable once built; every offset refers
// to the document snapshot they were parsed from.
package ast
