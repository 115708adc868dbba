// Package engine runs the image transform for queued jobs. The canonical
// implementation mirrors the pipeline this service fronts: AES-128 over BMP
// pixel data in ECB or CBC mode. A passthrough stub stands in where no real
// cipher work is wanted (tests, local smoke runs).
package engine

import "context"

// Request carries one transform job's inputs.
type Request struct {
	// Payload is the raw input image.
	Payload []byte

	// Key is the user-supplied cipher key, at most 16 bytes.
	Key string

	// Operation is "encrypt" or "decrypt".
	Operation string

	// Mode is "ECB" or "CBC".
	Mode string
}

// Transformer turns an input payload into the processed artifact.
type Transformer interface {
	Transform(ctx context.Context, req Request) ([]byte, error)
}
