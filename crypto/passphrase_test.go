package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPassphraseClearZeroesBuffer(t *testing.T) {
	buffer := []byte("hunter2")
	passphrase := NewPassphrase(buffer)

	passphrase.Clear()

	for k := range buffer {
		assert.Exactly(t, uint8(0x00), buffer[k])
	}
	assert.True(t, passphrase.IsEmpty())
	assert.Nil(t, passphrase.Bytes())
}

func TestPassphraseEmpty(t *testing.T) {
	assert.True(t, EmptyPassphrase().IsEmpty())
	assert.True(t, NewPassphrase(nil).IsEmpty())
	assert.True(t, PassphraseFromString("").IsEmpty())
	assert.False(t, PassphraseFromString("x").IsEmpty())
}

func TestPassphraseFromStringCopies(t *testing.T) {
	passphrase := PassphraseFromString("hunter2")
	assert.Equal(t, []byte("hunter2"), passphrase.Bytes())

	passphrase.Clear()
	assert.True(t, passphrase.IsEmpty())
}
