// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The similarity pipeline lives here: the Comparator scores a subject
// against the corpus through the score cache, the tree walker builds
// relationship chains, and ProgressiveCheck streams per-document progress.
// Services hold no transport or storage code.
package services
