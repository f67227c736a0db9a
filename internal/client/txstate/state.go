// Package txstate is the single source of truth for the remote transaction
// lifecycle: the canonical state set, its grouping into pending/in-progress/
// terminal buckets, and the one derivation function every console view uses
// to render a state. Views must never redefine state→label mappings locally.
package txstate

// State is a transaction lifecycle state as reported by the cluster.
// The set below is exhaustive for the current backend; unknown strings are
// still accepted and map to SeverityUnknown because the backend's state set
// may evolve independently of a deployed console.
type State string

const (
	Pending          State = "pending"
	Voting           State = "voting"
	Collecting       State = "collecting"
	ThresholdReached State = "threshold_reached"
	Approved         State = "approved"
	Signing          State = "signing"
	Signed           State = "signed"
	Submitted        State = "submitted"
	Broadcasting     State = "broadcasting"
	Confirmed        State = "confirmed"
	Failed           State = "failed"
	Rejected         State = "rejected"
	AbortedByzantine State = "aborted_byzantine"
)

// Severity groups states for presentation.
type Severity string

const (
	// SeverityPending marks early lifecycle states still gathering votes.
	SeverityPending Severity = "pending"
	// SeverityProgress marks informational mid-lifecycle states.
	SeverityProgress Severity = "progress"
	// SeveritySuccess marks terminal success states.
	SeveritySuccess Severity = "success"
	// SeverityFailure marks terminal failure states.
	SeverityFailure Severity = "failure"
	// SeverityUnknown is the fallback for states this build does not know.
	SeverityUnknown Severity = "unknown"
)

// Descriptor is the presentation-facing view of a state.
type Descriptor struct {
	Label    string
	Severity Severity
	Terminal bool
}

var descriptors = map[State]Descriptor{
	Pending:          {Label: "Pending", Severity: SeverityPending},
	Voting:           {Label: "Voting", Severity: SeverityPending},
	Collecting:       {Label: "Collecting", Severity: SeverityPending},
	ThresholdReached: {Label: "Threshold Reached", Severity: SeverityProgress},
	Approved:         {Label: "Approved", Severity: SeverityProgress},
	Signing:          {Label: "Signing", Severity: SeverityProgress},
	Signed:           {Label: "Signed", Severity: SeveritySuccess, Terminal: true},
	Submitted:        {Label: "Submitted", Severity: SeverityProgress},
	Broadcasting:     {Label: "Broadcasting", Severity: SeverityProgress},
	Confirmed:        {Label: "Confirmed", Severity: SeveritySuccess, Terminal: true},
	Failed:           {Label: "Failed", Severity: SeverityFailure, Terminal: true},
	Rejected:         {Label: "Rejected", Severity: SeverityFailure, Terminal: true},
	AbortedByzantine: {Label: "Aborted (Byzantine)", Severity: SeverityFailure, Terminal: true},
}

// All lists the canonical states in lifecycle order.
var All = []State{
	Pending, Voting, Collecting, ThresholdReached, Approved, Signing,
	Signed, Submitted, Broadcasting, Confirmed, Failed, Rejected,
	AbortedByzantine,
}

// Describe is a total function from any state string to its presentation.
// Unrecognized states get the raw string as label and SeverityUnknown; it
// never panics.
func Describe(s State) Descriptor {
	if d, ok := descriptors[s]; ok {
		return d
	}
	return Descriptor{Label: string(s), Severity: SeverityUnknown}
}

// IsTerminal reports whether the cluster will never advance s further.
// Unknown states are treated as non-terminal so the console keeps polling.
func IsTerminal(s State) bool {
	return Describe(s).Terminal
}
