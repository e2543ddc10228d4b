package models

// ComparisonStatus is the result class of comparing a fetch against the stored snapshot.
type ComparisonStatus string

const (
	// StatusInitial means no snapshot existed; the body became the first one.
	StatusInitial ComparisonStatus = "initial"
	// StatusUnchanged means normalized content matched, or the fetch produced nothing.
	StatusUnchanged ComparisonStatus = "unchanged"
	// StatusChanged means normalized content differed from the stored snapshot.
	StatusChanged ComparisonStatus = "changed"
)

func (s ComparisonStatus) String() string {
	return string(s)
}

// ComparisonOutcome carries raw (not normalized) content for both sides.
type ComparisonOutcome struct {
	Target   string           `json:"target"`
	Status   ComparisonStatus `json:"status"`
	Previous *string          `json:"previous,omitempty"` // nil for StatusInitial
	Current  string           `json:"current"`
	Fetched  bool             `json:"fetched"` // false when the fetch failed
}

// IsChanged reports whether the outcome should trigger a change notification.
func (o ComparisonOutcome) IsChanged() bool {
	return o.Status == StatusChanged
}

// PreviousContent returns the previous snapshot or "" when there was none.
func (o ComparisonOutcome) PreviousContent() string {
	if o.Previous == nil {
		return ""
	}
	return *o.Previous
}
