package shared

// DeletionOutcome tells the caller what a delete request actually did.
// Records still referenced by historical documents are deactivated instead
// of removed.
type DeletionOutcome string

const (
	DeletionHardDeleted DeletionOutcome = "deleted"
	DeletionDeactivated DeletionOutcome = "deactivated"
)

// String returns the string representation of DeletionOutcome
func (o DeletionOutcome) String() string {
	return string(o)
}
