package primitives

import (
	"crypto/aes"
	"crypto/cipher"
)

// PRGContext is a fixed-key AES-128 ECB encryption state used by the
// length-doubling tree PRG (the Davies-Meyer construction BGI'16 uses to
// make the tree PRG one-way from fixed-key AES). It is stateless across
// calls - the same Block under the same context always produces
// the same output - and is not safe for concurrent use; callers run Gen
// and Eval single-threaded against one context at a time.
type PRGContext struct {
	cipher cipher.Block
}

// NewPRGContext builds a PRGContext from a 16-byte fixed key. The key is
// public: it only needs to make the PRG behave like an independent random
// function per seed, not to hide anything from either evaluator.
func NewPRGContext(key Block) (*PRGContext, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return &PRGContext{cipher: block}, nil
}

// DefaultPRGContext returns a PRGContext built over a fixed, public,
// all-zero key. Any fixed key is secure for this construction; using a
// well-known constant lets two independently-constructed PRGContext values
// always agree, which Gen and Eval both rely on implicitly.
func DefaultPRGContext() *PRGContext {
	ctx, err := NewPRGContext(Block{})
	if err != nil {
		panic("primitives: fixed-key AES-128 context construction cannot fail: " + err.Error())
	}
	return ctx
}

func (c *PRGContext) encryptBlock(in Block) Block {
	var out Block
	c.cipher.Encrypt(out[:], in[:])
	return out
}

// Expand is the length-doubling tree PRG:
// PRG(ctx, s) -> (sL, sR, u0, u1). u0 and u1 are the raw Davies-Meyer
// outputs; callers extract control bits from them according to which
// construction they belong to (DPF.lsb(u0)/lsb(toggle_lsb(u1)) for single
// points, or the low t bits of u0/u1 for the DMPF wide control word).
func (c *PRGContext) Expand(s Block) (sL, sR, u0, u1 Block) {
	sPrime := s.SetLSBZero()
	sPrimeToggled := sPrime.ToggleLSB()

	e0 := c.encryptBlock(sPrime)
	e1 := c.encryptBlock(sPrimeToggled)

	u0 = e0.XOR(sPrime)
	u1 = e1.XOR(sPrimeToggled)

	sL = u0.SetLSBZero()
	sR = u1.ToggleLSB().SetLSBZero()
	return sL, sR, u0, u1
}
