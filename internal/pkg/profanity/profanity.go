/*
Package profanity implements the content predicate applied to outbound chat text.

It wraps the go-away profanity detector behind a small interface so the chat core
only depends on a boolean check over message text.
*/
package profanity

import (
	goaway "github.com/TwiN/go-away"
)

// Filter reports whether a piece of message text should be rejected.
type Filter interface {
	IsProfane(text string) bool
}

// Detector is the production Filter backed by the go-away word lists.
type Detector struct {
	detector *goaway.ProfanityDetector
}

// NewDetector constructs a Detector using the default dictionaries.
func NewDetector() *Detector {
	return &Detector{
		detector: goaway.NewProfanityDetector(),
	}
}

// IsProfane reports whether text contains profanity.
func (d *Detector) IsProfane(text string) bool {
	return d.detector.IsProfane(text)
}
