package entity

// Entity is a reference to one live entity inside an Extent.
//
// State and Remove must be called from the goroutine that drives the
// owning extent. Use the Scheduled capability to get there from elsewhere.
type Entity interface {
	Faceted
	Locatable

	// State returns a copy of the entity's data, or NotCapturable for kinds
	// that have no detached form. It has no side effects.
	State() StateResult

	// Remove takes the entity out of its extent. Calling it again on the
	// same reference returns AlreadyAbsent.
	Remove() RemoveOutcome
}
