package adapter

// Envelope is the outcome of one invocation: either the response with its
// selected projection, or the error that stopped it. A declined
// confirmation leaves Skipped set and everything else empty.
type Envelope struct {
	Operation string
	Input     any // the piped value this invocation was made for, if any
	Response  any
	Output    any
	Err       error
	Skipped   bool
	Warnings  []string
}

// OK reports whether the invocation reached the service and produced output
func (e Envelope) OK() bool {
	return e.Err == nil && !e.Skipped
}

// Summary counts the outcomes of a batch
type Summary struct {
	Succeeded int
	Failed    int
	Skipped   int
}

// Summarize counts envs by outcome
func Summarize(envs []Envelope) Summary {
	var s Summary
	for _, e := range envs {
		switch {
		case e.Err != nil:
			s.Failed++
		case e.Skipped:
			s.Skipped++
		default:
			s.Succeeded++
		}
	}
	return s
}
