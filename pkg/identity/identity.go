// Package identity derives stable author identifiers from name parts.
//
// An identity is the 64-bit XXH3 hash of the canonical display string of a
// name. It is stored as 16 lowercase hex digits so that existing databases
// keep resolving to the same rows.
package identity

import (
	"fmt"
	"strconv"

	"github.com/zeebo/xxh3"

	"github.com/agentstation/papertrail/pkg/errors"
)

// Identity is a 64-bit author identifier.
type Identity uint64

// Join builds the canonical display string hashed by Of.
func Join(family, given, suffix string) string {
	if suffix != "" {
		return given + " " + family + " " + suffix
	}
	return given + " " + family
}

// Of returns the identity of the given name parts.
func Of(family, given, suffix string) Identity {
	return Identity(xxh3.HashString(Join(family, given, suffix)))
}

// String returns the zero-padded lowercase hex form.
func (id Identity) String() string {
	return fmt.Sprintf("%016x", uint64(id))
}

// Parse decodes the hex form produced by String.
func Parse(s string) (Identity, error) {
	if len(s) != 16 {
		return 0, errors.NewValidationError("id", s, "identity must be 16 hex digits")
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, errors.WrapValidation("id", err)
	}
	return Identity(v), nil
}

// MarshalText implements encoding.TextMarshaler.
func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *Identity) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*id = v
	return nil
}
