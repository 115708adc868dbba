package engine

import "context"

// StubTransformer returns the payload unchanged. Used in tests and wherever
// the real cipher is not wanted.
type StubTransformer struct{}

var _ Transformer = (*StubTransformer)(nil)

func (StubTransformer) Transform(_ context.Context, req Request) ([]byte, error) {
	out := make([]byte, len(req.Payload))
	copy(out, req.Payload)
	return out, nil
}
