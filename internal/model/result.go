package model

import "time"

// Operation tag constants
const (
	OpEncrypt = "encrypt"
	OpDecrypt = "decrypt"
)

// Cipher mode constants
const (
	ModeECB = "ECB"
	ModeCBC = "CBC"
)

// Result is the metadata record for one processed image stored in the blob
// store. The binary payload itself lives only in the blob store under the
// same id; it is never duplicated here.
type Result struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Op        string    `json:"op"`
	Mode      string    `json:"mode"`
	CreatedAt time.Time `json:"created_at"`
}

// NewResult creates a metadata record for a freshly stored payload.
func NewResult(id, name, op, mode string, createdAt time.Time) Result {
	return Result{
		ID:        id,
		Name:      name,
		Op:        op,
		Mode:      mode,
		CreatedAt: createdAt.UTC(),
	}
}
