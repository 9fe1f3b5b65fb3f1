package crypto

import (
	gocrypto "crypto"
	"crypto/rand"
	"io"

	openpgp "github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/pgpseal/pgpseal/constants"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// encryptChunkSize is the size of the lock-step chunks fed to the
// literal-data packet and the signature hash.
const encryptChunkSize = 1 << 16

// noOpCloser shields an inner layer from serializers that close their
// destination.
type noOpCloser struct {
	w io.Writer
}

func (c noOpCloser) Write(p []byte) (int, error) {
	return c.w.Write(p)
}

func (c noOpCloser) Close() error {
	return nil
}

// SignEncryptPipeline streams plaintext into a signed, compressed,
// symmetrically encrypted OpenPGP message addressed to the configured
// recipient. Use a SignEncryptBuilder to create one.
type SignEncryptPipeline interface {
	// EncryptAndSign consumes the entire input and writes a complete
	// OpenPGP message to the output. The output is closed on every
	// exit path; input ownership stays with the caller. A failed call
	// leaves no valid message on the output.
	//
	// The pipeline holds no mutable state across calls, but calls on
	// one instance must be serialized by the caller.
	EncryptAndSign(input io.Reader, output io.WriteCloser) error
}

// signEncryptHandle collects the resolved configuration for the
// pipeline. All references are resolved and the signing key unlocked
// at construction time; the handle is immutable afterwards.
type signEncryptHandle struct {
	recipientKey      *packet.PublicKey
	signingEntity     *openpgp.Entity
	signingKey        *packet.PrivateKey
	signerUserId      string
	hash              gocrypto.Hash
	cipher            packet.CipherFunction
	compression       packet.CompressionAlgo
	compressionConfig *packet.CompressionConfig
	armored           bool
	armorHeaders      map[string]string
	clock             Clock
	logger            zerolog.Logger
}

func (sp *signEncryptHandle) EncryptAndSign(input io.Reader, output io.WriteCloser) (err error) {
	start := sp.clock()
	defer func() {
		if closeErr := output.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, "pgpseal: unable to close output")
		}
	}()

	// Layers opened so far, outermost first. On failure every opened
	// layer is still closed, inner to outer, before the error is
	// surfaced; the first error wins.
	var layers []io.WriteCloser
	fail := func(failErr error) error {
		for i := len(layers) - 1; i >= 0; i-- {
			_ = layers[i].Close()
		}
		return failErr
	}

	config := &packet.Config{
		DefaultHash:   sp.hash,
		DefaultCipher: sp.cipher,
		Time:          sp.clock,
	}

	var sink io.Writer = output
	if sp.armored {
		armorWriter, armorErr := armor.Encode(output, constants.PGPMessageHeader, sp.armorHeaders)
		if armorErr != nil {
			return errors.Wrap(armorErr, "pgpseal: unable to armor output")
		}
		layers = append(layers, armorWriter)
		sink = armorWriter
	}

	// Fresh per-message session key, wrapped for the recipient.
	sessionKey := make([]byte, sp.cipher.KeySize())
	if _, randErr := rand.Read(sessionKey); randErr != nil {
		return fail(errors.Wrap(randErr, "pgpseal: unable to generate session key"))
	}
	if keyErr := packet.SerializeEncryptedKeyAEAD(sink, sp.recipientKey, sp.cipher, false, sessionKey, config); keyErr != nil {
		return fail(errors.Wrap(keyErr, "pgpseal: unable to wrap session key"))
	}
	encWriter, encErr := packet.SerializeSymmetricallyEncrypted(sink, sp.cipher, false, packet.CipherSuite{}, sessionKey, config)
	if encErr != nil {
		return fail(errors.Wrap(encErr, "pgpseal: unable to open encryption layer"))
	}
	layers = append(layers, encWriter)

	var inner io.WriteCloser = encWriter
	var compWriter io.WriteCloser
	if sp.compression != packet.CompressionNone {
		var compErr error
		compWriter, compErr = packet.SerializeCompressed(encWriter, sp.compression, sp.compressionConfig)
		if compErr != nil {
			return fail(errors.Wrap(compErr, "pgpseal: unable to open compression layer"))
		}
		layers = append(layers, compWriter)
		inner = compWriter
	}

	// The one-pass marker precedes any content so that a streaming
	// reader knows a trailing signature follows.
	onePass := &packet.OnePassSignature{
		Version:    3,
		SigType:    packet.SigTypeBinary,
		Hash:       sp.hash,
		PubKeyAlgo: sp.signingKey.PubKeyAlgo,
		KeyId:      sp.signingKey.KeyId,
		IsLast:     true,
	}
	if opsErr := onePass.Serialize(inner); opsErr != nil {
		return fail(errors.Wrap(opsErr, "pgpseal: unable to write one-pass signature"))
	}

	sig := &packet.Signature{
		Version:           sp.signingKey.Version,
		SigType:           packet.SigTypeBinary,
		PubKeyAlgo:        sp.signingKey.PubKeyAlgo,
		Hash:              sp.hash,
		CreationTime:      config.Now(),
		IssuerKeyId:       &sp.signingKey.KeyId,
		IssuerFingerprint: sp.signingKey.Fingerprint,
	}
	if sp.signerUserId != "" {
		// Non-critical hint naming the signer.
		sig.SignerUserId = &sp.signerUserId
	}

	// The literal serializer closes its destination on Close; a no-op
	// closer keeps the surrounding layer open for the trailing
	// signature.
	litWriter, litErr := packet.SerializeLiteral(noOpCloser{inner}, true, "", uint32(config.Now().Unix()))
	if litErr != nil {
		return fail(errors.Wrap(litErr, "pgpseal: unable to open literal data packet"))
	}
	layers = append(layers, litWriter)

	// Literal writing and signature hashing happen in lock step over
	// the same chunk, no second pass over the data is needed.
	hash := sp.hash.New()
	buffer := make([]byte, encryptChunkSize)
	if _, copyErr := io.CopyBuffer(io.MultiWriter(litWriter, hash), input, buffer); copyErr != nil {
		return fail(errors.Wrap(copyErr, "pgpseal: unable to stream plaintext"))
	}

	layers = layers[:len(layers)-1]
	if closeErr := litWriter.Close(); closeErr != nil {
		return fail(errors.Wrap(closeErr, "pgpseal: unable to close literal data packet"))
	}
	if signErr := sig.Sign(hash, sp.signingKey, config); signErr != nil {
		return fail(errors.Wrap(signErr, "pgpseal: unable to sign message"))
	}
	if sigErr := sig.Serialize(inner); sigErr != nil {
		return fail(errors.Wrap(sigErr, "pgpseal: unable to write trailing signature"))
	}

	// Close inner to outer, reporting the first failure.
	for i := len(layers) - 1; i >= 0; i-- {
		closer := layers[i]
		layers = layers[:i]
		if closeErr := closer.Close(); closeErr != nil {
			return fail(errors.Wrap(closeErr, "pgpseal: unable to close message layer"))
		}
	}

	sp.logger.Debug().
		Dur("duration", sp.clock().Sub(start)).
		Msg("encrypt and sign finished")
	return nil
}
