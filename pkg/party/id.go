package party

import (
	"errors"
	"io"
)

// ID represents a unique identifier for a participant in our scheme.
type ID string

// WriteTo implements io.WriterTo interface.
func (id ID) WriteTo(w io.Writer) (int64, error) {
	if id == "" {
		return 0, io.ErrUnexpectedEOF
	}
	n, err := w.Write([]byte(id))
	return int64(n), err
}

// Domain implements hash.WriterToWithDomain.
func (ID) Domain() string {
	return "ID"
}

// Validate returns an error if the ID is empty.
func (id ID) Validate() error {
	if id == "" {
		return errors.New("party: ID is empty")
	}
	return nil
}
