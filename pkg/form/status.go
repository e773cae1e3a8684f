package form

// Status is the lifecycle state of the whole form.
type Status string

const (
	StatusClean      Status = "clean"
	StatusDirty      Status = "dirty"
	StatusValidating Status = "validating"
	StatusValid      Status = "valid"
	StatusInvalid    Status = "invalid"
	StatusSubmitting Status = "submitting"
)

func (s Status) String() string { return string(s) }

// transitions lists the states reachable from each state. Staying in the
// same state is always allowed and is not listed.
var transitions = map[Status][]Status{
	StatusClean:      {StatusDirty, StatusValidating, StatusInvalid},
	StatusDirty:      {StatusValidating, StatusClean, StatusInvalid},
	StatusValidating: {StatusValid, StatusInvalid},
	StatusValid:      {StatusDirty, StatusValidating, StatusSubmitting, StatusClean, StatusInvalid},
	StatusInvalid:    {StatusDirty, StatusValidating, StatusClean},
	StatusSubmitting: {StatusClean, StatusValid, StatusDirty, StatusInvalid},
}

// CanTransition reports whether the form may move from one status to another.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
