package common

// DetailedError is the JSON error body returned by every route
type DetailedError struct {
	Status          int    `json:"status"`  // Http status code
	ID              string `json:"id"`      // provided to user so that we can better track down issues
	Code            string `json:"code"`    // Code which may be used to translate the message to the final user
	Message         string `json:"message"` // Understandable message sent to the client
	InternalMessage string `json:"-"`       // used only for logging so we don't want to serialize it out
}

// SetInternalMessage set the internal message that we will use for logging
func (d DetailedError) SetInternalMessage(internal error) DetailedError {
	if internal != nil {
		d.InternalMessage = internal.Error()
	}
	return d
}

// WithMessage returns a copy with a client facing message
func (d DetailedError) WithMessage(message string) DetailedError {
	d.Message = message
	return d
}

// Wrap returns a pointer on a copy of d carrying the internal error,
// handy for use cases returning *DetailedError
func (d DetailedError) Wrap(internal error) *DetailedError {
	e := d.SetInternalMessage(internal)
	return &e
}
