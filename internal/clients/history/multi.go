package history

import (
	"context"
	stderrors "errors"
)

type noopRecorder struct{}

// NewNoop returns a recorder that drops every event
func NewNoop() Recorder {
	return noopRecorder{}
}

func (noopRecorder) RecordMatchStart(context.Context, *MatchStartInput) error { return nil }

func (noopRecorder) RecordMatchEnd(context.Context, *MatchEndInput) error { return nil }

type multiRecorder []Recorder

// NewMulti fans events out to every recorder. It returns the noop
// recorder for an empty list and the recorder itself for a single one.
func NewMulti(recorders ...Recorder) Recorder {
	switch len(recorders) {
	case 0:
		return NewNoop()
	case 1:
		return recorders[0]
	default:
		return multiRecorder(recorders)
	}
}

func (m multiRecorder) RecordMatchStart(ctx context.Context, input *MatchStartInput) error {
	var errs []error
	for _, r := range m {
		if err := r.RecordMatchStart(ctx, input); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

func (m multiRecorder) RecordMatchEnd(ctx context.Context, input *MatchEndInput) error {
	var errs []error
	for _, r := range m {
		if err := r.RecordMatchEnd(ctx, input); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
