package sink

import (
	"context"
	stderrors "errors"

	"parsequote/internal/quote"
)

// Multi fans each quote out to every sink in order. The first error stops the fan-out.
type Multi []Sink

func (m Multi) Emit(ctx context.Context, msg quote.Message) error {
	for _, s := range m {
		if err := s.Emit(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Flush(ctx context.Context) error {
	for _, s := range m {
		if err := s.Flush(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink even when one fails and joins the errors.
func (m Multi) Close(ctx context.Context) error {
	var errs []error
	for _, s := range m {
		if err := s.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
