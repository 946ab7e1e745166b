package chat

import "errors"

var (
	// ErrModelUnavailable indicates the language model could not be
	// reached or did not answer within the configured timeout.
	ErrModelUnavailable = errors.New("language model unavailable")

	// ErrSummarizationFailed indicates the model was reachable but summary
	// generation did not produce a usable result.
	ErrSummarizationFailed = errors.New("summarization failed")

	// ErrNothingToSummarize indicates the session has no messages, so no
	// summary exists. The model is never invoked in this case.
	ErrNothingToSummarize = errors.New("session has no messages to summarize")
)
