package stream

// StreamUnavailableError reports that no playable media could be obtained
// for a station URL, either because playlist resolution produced nothing
// or because the decoder rejected the stream.
type StreamUnavailableError struct {
	URL string
}

func (e *StreamUnavailableError) Error() string {
	return "stream unavailable: " + e.URL
}
