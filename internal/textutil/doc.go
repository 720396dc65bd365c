// Package textutil provides the text processing primitives of the caption
// pipeline: snapshot normalization, token-overlap similarity scoring, and
// filename sanitization for transcript exports.
//
// Normalization collapses whitespace, strips embedded player timecodes, and
// caps consecutive word repeats at two. Similarity lowercases, splits on
// whitespace, filters tokens shorter than 3 characters, and scores shared
// unique tokens against the larger token set. Both are pure functions; all
// reconstruction state lives elsewhere.
package textutil
