// Package query answers word, phrase, chapter and verse queries over a built
// index and combines them into the advanced search.
//
// Every query is total: inputs that match nothing, or that do not parse as a
// chapter or verse reference, produce an empty result list rather than an
// error. Search terms are always escaped before they reach a regular expression.
package query
