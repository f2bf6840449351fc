// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Table: Row selection, column introspection, batched updates
//   - TableCatalog: Opens tables by name
//   - Project: Task primitives of one remote annotation project
//   - ProjectService: Resolves and creates remote projects
//   - LinkStore: Project link persistence
//   - ConfigStore: Tool configuration persistence
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
