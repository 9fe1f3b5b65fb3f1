package crypto

import (
	"sync"
	"testing"
)

const testTime = 1721500000 // 2024-07-20T18:26:40+00:00

const testMessageString = "Hello World!"

// Shared unprotected ECC material for tests that only read from the
// rings. Tests that unlock or mutate key material generate their own.
var (
	testMaterialOnce sync.Once
	testMaterial     *KeyringConfig
)

func testKeyRing(t *testing.T) *KeyringConfig {
	t.Helper()
	testMaterialOnce.Do(func() {
		config, err := SimpleECCKeyRing("pgpseal test <test@pgpseal.local>")
		if err != nil {
			panic("cannot generate test key ring: " + err.Error())
		}
		testMaterial = config
	})
	return testMaterial
}

func freshECCKeyRing(t *testing.T, userId string, passphrase *Passphrase) *KeyringConfig {
	t.Helper()
	config, err := SimpleECCKeyRingWithPassphrase(userId, passphrase)
	if err != nil {
		t.Fatalf("cannot generate key ring for %q: %v", userId, err)
	}
	return config
}
