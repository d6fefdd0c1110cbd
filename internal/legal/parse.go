package legal

// Parse segments raw statute text into articles and validates the result.
// It is deterministic and safe for concurrent use.
func Parse(raw string) Result {
	return Validate(Segment(raw))
}
