// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Corpus: Read-only snapshot of every stored document, in stable order
//   - DocumentStore: Document persistence (sqlite, memory, filesystem)
//   - ScoreCache: Memoised similarity scores shared by all checks
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - CheckStore: Check history. Without it, document checks are not recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
