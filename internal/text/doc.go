// Package text implements the tokenization rules shared by the index builder
// and the query engine.
//
// A word is a maximal run of Unicode letters, digits, non-spacing marks and
// underscores (the Unicode-aware equivalent of `\w+`). Sentence candidates
// for the phrase index are produced by splitting on runs of `.`, `!` and `?`.
package text
