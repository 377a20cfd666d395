package churnwatch

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownLevel is returned by a wrapped function whose threshold is not
// one of LOW, MEDIUM, HIGH or CRITICAL.
var ErrUnknownLevel = errors.New("churnwatch: unknown risk level")

// RetentionFunc acts on an assessed customer, e.g. opens a ticket or sends an offer.
type RetentionFunc func(ctx context.Context, customer Customer, a *Assessment) error

// Wrap returns a function that scores the customer and calls fn only when
// the risk level is at least min. The assessment is returned either way;
// acted reports whether fn ran. An unknown min fails every call with
// ErrUnknownLevel before anything is scored.
func (c *Client) Wrap(fn RetentionFunc, min Level) func(ctx context.Context, customer Customer) (a *Assessment, acted bool, err error) {
	if !min.Valid() {
		err := fmt.Errorf("%w: %q", ErrUnknownLevel, string(min))
		return func(context.Context, Customer) (*Assessment, bool, error) {
			return nil, false, err
		}
	}
	return func(ctx context.Context, customer Customer) (*Assessment, bool, error) {
		a, err := c.Score(ctx, customer)
		if err != nil {
			return nil, false, err
		}
		if !a.Level.AtLeast(min) {
			return a, false, nil
		}
		if err := fn(ctx, customer, a); err != nil {
			return a, true, err
		}
		return a, true, nil
	}
}
