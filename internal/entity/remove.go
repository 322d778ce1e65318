package entity

// RemoveOutcome is the result of asking an entity to leave its extent.
type RemoveOutcome int

const (
	// Removed means this call took the entity out of its extent.
	Removed RemoveOutcome = iota + 1
	// AlreadyAbsent means the entity was gone before this call.
	AlreadyAbsent
	// Refused means the entity is present and the extent would not let go
	// of it, e.g. a connected player.
	Refused
)

// Succeeded reports whether this call removed the entity.
func (o RemoveOutcome) Succeeded() bool { return o == Removed }

func (o RemoveOutcome) String() string {
	switch o {
	case Removed:
		return "removed"
	case AlreadyAbsent:
		return "already-absent"
	case Refused:
		return "refused"
	}
	return "unknown"
}
