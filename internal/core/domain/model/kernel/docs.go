// Package kernel provides the value objects shared by every aggregate of the
// receiving domain.
//
// The package includes:
//   - PKey: the synthetic UUID identity of persisted aggregates
//   - Unit and Quantity: decimal magnitudes in a unit of measure with conversion
//     between units of the same dimension (pieces, weight, volume)
//   - DomainEvent, EventSource and EventRecorder: the pending event list that
//     aggregates fill and the unit of work drains after commit
//
// Value objects are immutable. Zero values are not valid and are rejected by
// their Validate methods.
package kernel
