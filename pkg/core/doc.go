// Package core defines the shared language of another-signal.
//
// This package contains:
//   - Domain entities (Account, MagicColumn, Prospect)
//   - View-state vocabulary shared by every front end (Filter)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
