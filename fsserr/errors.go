// Package fsserr defines the error taxonomy shared by the dpf, dmpf, vdpf,
// vdmpf, and compress packages. Callers use errors.Is against these
// sentinels; call sites wrap them with fmt.Errorf("...: %w", ...) for
// context.
package fsserr

import "errors"

var (
	// ErrInputsUnsorted is returned by DMPF/VDMPF Gen when the special
	// points are not strictly ascending.
	ErrInputsUnsorted = errors.New("fss: special points must be strictly ascending")

	// ErrDomainTooLarge is returned by Gen when n is not positive or
	// exceeds the index type's range. Full-domain evaluation does not check
	// the size of its 2^n output and never returns it.
	ErrDomainTooLarge = errors.New("fss: domain size exceeds supported range")

	// ErrControlWordTooWide is returned when t exceeds what a packed
	// control word can represent.
	ErrControlWordTooWide = errors.New("fss: control word cannot represent this many points")

	// ErrCryptoFailure wraps an unexpected failure from a PRG, MMO, or hash
	// primitive call.
	ErrCryptoFailure = errors.New("fss: cryptographic primitive failed")

	// ErrFailedSampling is returned when a verifiable Gen's rejection loop
	// exceeds its retry budget without finding a key pair that satisfies the
	// LSB-distinguishability invariant.
	ErrFailedSampling = errors.New("fss: verifiable key generation exceeded its retry budget")

	// ErrShortKey is returned by Eval/FullDomain/Deserialize when a key is
	// shorter than its parsed header implies.
	ErrShortKey = errors.New("fss: key is shorter than its header declares")
)
