// Package errs carries the error vocabulary of the usecase layer: sentinel
// domain errors plus thin helpers over cockroachdb/errors so call sites never
// import it directly.
package errs

import (
	cr "github.com/cockroachdb/errors"
)

// Wrap annotates err with msg, keeping the original cause and stack.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// Mark makes err match markErr under errors.Is without losing the cause.
// Handlers branch on the mark; logs keep the wrapped chain.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}
