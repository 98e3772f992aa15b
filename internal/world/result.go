package world

// StateChange records one observable mutation made by a handler, for the
// action response and for tests.
type StateChange struct {
	Kind   string `json:"kind"`   // e.g. "hp", "shells", "inventory", "location"
	Detail string `json:"detail"` // human-readable delta
}

// Result is the outcome of one processed action. Success=false results carry
// a narrative and must not have mutated state (encounter creation during a
// travel ambush is the documented exception).
type Result struct {
	Success      bool          `json:"success"`
	Narrative    string        `json:"narrative"`
	StateChanges []StateChange `json:"stateChanges,omitempty"`
}

func Fail(narrative string) *Result {
	return &Result{Success: false, Narrative: narrative}
}

func OK(narrative string, changes ...StateChange) *Result {
	return &Result{Success: true, Narrative: narrative, StateChanges: changes}
}

func (r *Result) Change(kind, detail string) {
	r.StateChanges = append(r.StateChanges, StateChange{Kind: kind, Detail: detail})
}
