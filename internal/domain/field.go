package domain

// Field is one tracked attribute of an entity, rendered as a comparable string.
type Field struct {
	Name  string
	Value string
}

// FieldChange records one tracked attribute that differs between two polls.
type FieldChange struct {
	Field string
	Old   string
	New   string
}

// Tracked is implemented by entities the diff engine compares field by field.
type Tracked interface {
	TrackedFields() []Field
}

func FindChange(changes []FieldChange, field string) (FieldChange, bool) {
	for _, change := range changes {
		if change.Field == field {
			return change, true
		}
	}
	return FieldChange{}, false
}
