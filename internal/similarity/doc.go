// Package similarity implements the lexical core of the engine: text
// normalisation and tokenisation, n-gram shingling and the Jaccard score.
//
// Every function here is pure and deterministic. Callers that need
// memoisation go through the engine's score cache, which stores values
// produced by Compare and nothing else.
package similarity
