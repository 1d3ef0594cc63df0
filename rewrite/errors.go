package rewrite

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidCall matches every ClassificationError.
var ErrInvalidCall = errors.New("invalid require call")

// ErrNoStaticText is returned by Module.Specifier for a template literal whose
// leading text is empty, such as `${dir}/x.js`. Such calls are left as written.
var ErrNoStaticText = errors.New("specifier has no static text")

// ClassificationError reports a call whose argument is not a string literal,
// a "+" chain starting with a string literal, or a template literal. Payload describes the arguments without source positions.
type ClassificationError struct {
	File      string
	Construct Construct
	Reason    string
	Payload   []any
}

func (e *ClassificationError) Error() string {
	payload, err := json.MarshalIndent(e.Payload, "", "  ")
	if err != nil {
		payload = []byte(fmt.Sprintf("%v", e.Payload))
	}
	prefix := ""
	if e.File != "" {
		prefix = e.File + ": "
	}
	return fmt.Sprintf("%s%s %s (%s): %s", prefix, ErrInvalidCall, e.Construct, e.Reason, payload)
}

func (e *ClassificationError) Unwrap() error {
	return ErrInvalidCall
}
