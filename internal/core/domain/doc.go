// Package domain defines the core business entities for Overlap.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A stored text that checks are run against
//   - SimilarityResult: The score of one subject/document comparison
//   - CheckEvent: One typed record of a progressive check
//   - CacheKey / CacheStats: Memoisation identity and counters
//   - BatchReport / Analysis: Corpus-wide aggregate views
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
