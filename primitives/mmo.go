package primitives

import (
	"crypto/aes"
	"crypto/cipher"
)

// MMOContext is a fixed-key AES-128 Matyas-Meyer-Oseas hash context, used by
// the verifiable (VDPF/VDMPF) layer to derive per-point proof digests. Like
// PRGContext, it is stateless across calls and not safe for concurrent use.
type MMOContext struct {
	cipher cipher.Block
}

// NewMMOContext builds an MMOContext from a 16-byte fixed key.
func NewMMOContext(key Block) (*MMOContext, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return &MMOContext{cipher: block}, nil
}

// DefaultMMOContext returns an MMOContext over the same well-known fixed key
// as DefaultPRGContext. The verifiable layer needs its MMO context to be
// public and shared between both evaluators, exactly like the PRG context.
func DefaultMMOContext() *MMOContext {
	ctx, err := NewMMOContext(Block{})
	if err != nil {
		panic("primitives: fixed-key AES-128 MMO context construction cannot fail: " + err.Error())
	}
	return ctx
}

func (m *MMOContext) davisMeyer(in Block) Block {
	var out Block
	m.cipher.Encrypt(out[:], in[:])
	return out.XOR(in)
}

// Hash2to4 computes the 2-block-input, 4-block-output MMO digest used to
// derive a fresh per-point proof seed: pi_i = MMO1(x_i || s_i). The
// construction chains four independent Davies-Meyer compressions over the
// two input blocks, the first of which is XORed with a distinct
// domain-separating counter block per output, so the four outputs are
// independent even though they are derived from the same two-block input.
func (m *MMOContext) Hash2to4(in0, in1 Block) [4]Block {
	return m.chain([2]Block{in0, in1})
}

// Hash4to4 computes the 4-block-input, 4-block-output MMO digest used in
// proof chaining (cpi = MMO2(h)).
func (m *MMOContext) Hash4to4(in [4]Block) [4]Block {
	return m.chain4(in)
}

func (m *MMOContext) chain(in [2]Block) [4]Block {
	var out [4]Block
	for slot := 0; slot < 4; slot++ {
		ctr := Block{}
		ctr[BlockSize-1] = byte(slot)
		a := in[0].XOR(ctr)
		b := in[1]
		combined := m.davisMeyer(a).XOR(b)
		out[slot] = m.davisMeyer(combined)
	}
	return out
}

func (m *MMOContext) chain4(in [4]Block) [4]Block {
	var out [4]Block
	for slot := 0; slot < 4; slot++ {
		ctr := Block{}
		ctr[BlockSize-1] = byte(slot)
		acc := in[0].XOR(ctr)
		for i := 1; i < 4; i++ {
			acc = m.davisMeyer(acc).XOR(in[i])
		}
		out[slot] = m.davisMeyer(acc)
	}
	return out
}
