package crypto

// Passphrase wraps an optional secret used to protect secret keys.
// The backing buffer can be zeroed out explicitly; emptiness is a
// checkable state meaning "no protection", distinct from nil misuse.
type Passphrase struct {
	data []byte
}

// NewPassphrase creates a Passphrase over the given bytes.
// The Passphrase takes ownership of the slice, callers must not
// reuse it.
func NewPassphrase(data []byte) *Passphrase {
	return &Passphrase{data: data}
}

// PassphraseFromString creates a Passphrase from a string.
func PassphraseFromString(passphrase string) *Passphrase {
	return &Passphrase{data: []byte(passphrase)}
}

// EmptyPassphrase returns the sentinel for an unprotected secret key.
func EmptyPassphrase() *Passphrase {
	return &Passphrase{}
}

// IsEmpty reports whether no protection is requested.
func (p *Passphrase) IsEmpty() bool {
	return len(p.data) == 0
}

// Bytes returns the backing buffer. The buffer is still owned by the
// Passphrase and becomes unusable after Clear.
func (p *Passphrase) Bytes() []byte {
	return p.data
}

// Clear zeroes out the backing buffer. The Passphrase reports empty
// afterwards.
func (p *Passphrase) Clear() {
	for i := range p.data {
		p.data[i] = 0x00
	}
	p.data = nil
}
