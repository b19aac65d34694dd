// Package textutil provides text processing utilities shared across the
// pipeline: canonical normalization for duplicate detection and token
// sanitization for debug artifacts and per-person report files.
//
// Normalization collapses runs of whitespace to single spaces and lowercases
// the result, so two items that differ only in spacing or casing compare
// equal. It never attempts semantic equivalence.
package textutil
