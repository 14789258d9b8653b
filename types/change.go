package types

// ChangeKind classifies a single document change within a snapshot.
type ChangeKind int

const (
	// ChangeAdded indicates a document entered the result set.
	ChangeAdded ChangeKind = iota

	// ChangeModified indicates a document already in the result set changed.
	ChangeModified

	// ChangeRemoved indicates a document left the result set.
	ChangeRemoved
)

// String returns the string representation of the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeModified:
		return "modified"
	case ChangeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Change describes one document change within a snapshot batch.
//
// Index is the position within the current full ordered snapshot as reported
// by the source, not a delta offset. For ChangeAdded it is the insertion
// position, for ChangeModified the position of the element to replace, and
// for ChangeRemoved the position of the element to delete.
type Change struct {
	// Index is the source-reported position within the ordered snapshot.
	Index int

	// Doc is the entity record the change refers to.
	Doc Document

	// Kind classifies the change.
	Kind ChangeKind

	// Durable reports whether the change reflects server-confirmed state.
	// A false value marks a provisional, locally-echoed write.
	Durable bool
}
