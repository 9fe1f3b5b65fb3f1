package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"time"

	openpgp "github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/pgpseal/pgpseal/profile"
	"github.com/pkg/errors"
)

// KeyRingBuilder is the entry stage of the staged key ring generation
// API. Subkeys may be added in any number before the master key; once
// the master key is set the builder narrows to the user id stage, so
// illegal call orders do not compile. Validation failures at any stage
// are recorded and surfaced by Build, never as partial key rings.
//
// A builder instance is one-shot: it must not be reused after Build.
type KeyRingBuilder struct {
	state *keyRingBuilderState
}

type keyRingBuilderState struct {
	specs      []KeySpec
	userId     string
	passphrase *Passphrase
	profile    *profile.Custom
	clock      Clock
	err        error
}

// NewKeyRingBuilder starts a key ring build with the default profile.
func NewKeyRingBuilder() *KeyRingBuilder {
	return NewKeyRingBuilderWithProfile(profile.Default())
}

// NewKeyRingBuilderWithProfile starts a key ring build with the given
// profile.
func NewKeyRingBuilderWithProfile(p *profile.Custom) *KeyRingBuilder {
	return &KeyRingBuilder{
		state: &keyRingBuilderState{
			profile: p,
			clock:   time.Now,
		},
	}
}

// GenerationTime sets the key generation time to the given unix time.
func (b *KeyRingBuilder) GenerationTime(unixTime int64) *KeyRingBuilder {
	b.state.clock = NewConstantClock(unixTime)
	return b
}

// WithSubKey appends a subkey spec. The spec must carry at least one
// capability flag.
func (b *KeyRingBuilder) WithSubKey(spec KeySpec) *KeyRingBuilder {
	if spec.flags == 0 && b.state.err == nil {
		b.state.err = errors.Wrap(ErrInvalidKeySpec, "subkey spec carries no capability flags")
	}
	b.state.specs = append(b.state.specs, spec)
	return b
}

// WithMasterKey sets the master key spec and narrows the builder to
// the user id stage. The master key spec must carry the certify flag.
func (b *KeyRingBuilder) WithMasterKey(spec KeySpec) *UserIdStage {
	if !spec.flags.has(KeyFlagCertify) && b.state.err == nil {
		b.state.err = errors.Wrap(ErrInvalidKeySpec, "master key must carry the certify flag")
	}
	b.state.specs = append([]KeySpec{spec}, b.state.specs...)
	return &UserIdStage{state: b.state}
}

// UserIdStage binds the primary identity of the key ring.
type UserIdStage struct {
	state *keyRingBuilderState
}

// WithPrimaryUserId binds the textual identity that appears in the
// master key's self-certification.
func (s *UserIdStage) WithPrimaryUserId(userId string) *PassphraseStage {
	if userId == "" && s.state.err == nil {
		s.state.err = errors.Wrap(ErrInvalidKeySpec, "primary user id must not be empty")
	}
	s.state.userId = userId
	return &PassphraseStage{state: s.state}
}

// PassphraseStage selects the secret-key protection of the ring.
type PassphraseStage struct {
	state *keyRingBuilderState
}

// WithPassphrase protects the secret keys with the given passphrase.
// The builder takes ownership of the passphrase and clears it during
// Build, whether or not the build succeeds.
func (s *PassphraseStage) WithPassphrase(passphrase *Passphrase) *BuildStage {
	if passphrase == nil {
		passphrase = EmptyPassphrase()
	}
	s.state.passphrase = passphrase
	return &BuildStage{state: s.state}
}

// WithoutPassphrase stores the secret keys unprotected. Equivalent to
// supplying the empty passphrase sentinel.
func (s *PassphraseStage) WithoutPassphrase() *BuildStage {
	s.state.passphrase = EmptyPassphrase()
	return &BuildStage{state: s.state}
}

// BuildStage performs the generation.
type BuildStage struct {
	state *keyRingBuilderState
}

// Build generates the key ring pair: the master key first, then each
// subkey bound to it, with the secret ring protected according to the
// passphrase choice. Any primitive-layer failure aborts the build,
// partial key rings are never returned. The passphrase buffer is
// cleared on every exit path.
func (s *BuildStage) Build() (config *KeyringConfig, err error) {
	st := s.state
	if st.passphrase == nil {
		st.passphrase = EmptyPassphrase()
	}
	defer st.passphrase.Clear()

	if st.err != nil {
		return nil, st.err
	}
	withPassphrase := !st.passphrase.IsEmpty()
	certConfig := st.profile.CertificationConfig()
	certConfig.Time = st.clock

	// The master key pair comes first, it certifies everything below.
	masterSpec := st.specs[0]
	subSpecs := st.specs[1:]
	masterKey, err := generateKeyPair(masterSpec, st.clock)
	if err != nil {
		return nil, &KeyGenerationError{Err: err}
	}

	entity, err := newEntitySkeleton(masterKey, st.userId, masterSpec, certConfig)
	if err != nil {
		return nil, &KeyGenerationError{Err: err}
	}

	for _, spec := range subSpecs {
		subKey, err := generateKeyPair(spec, st.clock)
		if err != nil {
			return nil, &KeyGenerationError{Err: err}
		}
		if err := bindSubkey(entity, subKey, spec, certConfig); err != nil {
			return nil, &KeyGenerationError{Err: err}
		}
	}

	if withPassphrase {
		if err := entity.PrivateKey.Encrypt(st.passphrase.Bytes()); err != nil {
			return nil, &KeyGenerationError{Err: err}
		}
	}

	pair := materializeKeyRingPair(entity)

	// Key generation and passphrase protection are orthogonal in the
	// primitive layer, reconcile each subkey's protection state with
	// the passphrase choice explicitly.
	if err := repairSubkeyPackets(pair.secret, st.passphrase); err != nil {
		return nil, &KeyGenerationError{Err: err}
	}

	return &KeyringConfig{pair: pair, protected: withPassphrase}, nil
}

// generateKeyPair generates the raw key material for one spec. RSA
// keys are generated directly; ECC material is drawn through a scratch
// entity because the primitive layer does not export its curve
// registry.
func generateKeyPair(spec KeySpec, clock Clock) (*packet.PrivateKey, error) {
	creationTime := clock()
	switch spec.algorithm.algo {
	case packet.PubKeyAlgoRSA:
		rsaKey, err := rsa.GenerateKey(rand.Reader, spec.algorithm.bits)
		if err != nil {
			return nil, errors.Wrap(err, "pgpseal: unable to generate rsa key")
		}
		return packet.NewRSAPrivateKey(creationTime, rsaKey), nil
	case packet.PubKeyAlgoECDSA, packet.PubKeyAlgoEdDSA:
		scratch, err := newScratchEntity(spec.algorithm.algo, spec.algorithm.curve, clock)
		if err != nil {
			return nil, err
		}
		return scratch.PrivateKey, nil
	case packet.PubKeyAlgoECDH:
		signAlgo := packet.PubKeyAlgoECDSA
		if spec.algorithm.curve == packet.Curve25519 {
			signAlgo = packet.PubKeyAlgoEdDSA
		}
		scratch, err := newScratchEntity(signAlgo, spec.algorithm.curve, clock)
		if err != nil {
			return nil, err
		}
		if len(scratch.Subkeys) == 0 {
			return nil, errors.New("pgpseal: scratch entity has no encryption subkey")
		}
		subKey := scratch.Subkeys[0].PrivateKey
		subKey.IsSubkey = false
		return subKey, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedAlgorithm, "public key algorithm %d", spec.algorithm.algo)
	}
}

func newScratchEntity(algo packet.PublicKeyAlgorithm, curve packet.Curve, clock Clock) (*openpgp.Entity, error) {
	config := &packet.Config{
		Algorithm: algo,
		Curve:     curve,
		Time:      clock,
	}
	scratch, err := openpgp.NewEntity("pgpseal scratch", "", "scratch@pgpseal.invalid", config)
	if err != nil {
		return nil, errors.Wrap(err, "pgpseal: unable to generate key material")
	}
	return scratch, nil
}

// newEntitySkeleton creates the master key's self-certification,
// binding the identity and the master spec's hashed-subpacket policy.
func newEntitySkeleton(masterKey *packet.PrivateKey, userId string, spec KeySpec, config *packet.Config) (*openpgp.Entity, error) {
	uid := &packet.UserId{Id: userId}
	isPrimaryId := true
	selfSig := &packet.Signature{
		Version:      masterKey.PublicKey.Version,
		SigType:      packet.SigTypePositiveCert,
		PubKeyAlgo:   masterKey.PublicKey.PubKeyAlgo,
		Hash:         config.Hash(),
		CreationTime: config.Now(),
		IssuerKeyId:  &masterKey.PublicKey.KeyId,
		IsPrimaryId:  &isPrimaryId,
	}
	applyKeyFlags(selfSig, spec.flags)
	selfSig.PreferredSymmetric = spec.preferredSymmetric
	selfSig.PreferredHash = spec.preferredHash
	if err := selfSig.SignUserId(uid.Id, &masterKey.PublicKey, masterKey, config); err != nil {
		return nil, errors.Wrap(err, "pgpseal: unable to create self-certification")
	}
	return &openpgp.Entity{
		PrimaryKey: &masterKey.PublicKey,
		PrivateKey: masterKey,
		Identities: map[string]*openpgp.Identity{
			uid.Id: {
				Name:          uid.Id,
				UserId:        uid,
				SelfSignature: selfSig,
				Signatures:    []*packet.Signature{selfSig},
			},
		},
	}, nil
}

// bindSubkey binds subKey to the entity's master key. Specs with the
// inherited-subpackets flag get the ring's default binding signature,
// all others carry their own key-flag policy. Signing-capable subkeys
// additionally embed a primary-key-binding cross-signature.
func bindSubkey(e *openpgp.Entity, subKey *packet.PrivateKey, spec KeySpec, config *packet.Config) error {
	subKey.IsSubkey = true
	bindingSig := &packet.Signature{
		Version:      e.PrimaryKey.Version,
		SigType:      packet.SigTypeSubkeyBinding,
		PubKeyAlgo:   e.PrimaryKey.PubKeyAlgo,
		Hash:         config.Hash(),
		CreationTime: config.Now(),
		IssuerKeyId:  &e.PrimaryKey.KeyId,
	}
	if !spec.inheritedSubpackets {
		applyKeyFlags(bindingSig, spec.flags)
		bindingSig.PreferredSymmetric = spec.preferredSymmetric
		bindingSig.PreferredHash = spec.preferredHash
	}
	if spec.flags.has(KeyFlagSign) {
		embeddedSig := &packet.Signature{
			Version:      subKey.PublicKey.Version,
			SigType:      packet.SigTypePrimaryKeyBinding,
			PubKeyAlgo:   subKey.PublicKey.PubKeyAlgo,
			Hash:         config.Hash(),
			CreationTime: config.Now(),
			IssuerKeyId:  &subKey.PublicKey.KeyId,
		}
		if err := embeddedSig.CrossSignKey(&subKey.PublicKey, e.PrimaryKey, subKey, config); err != nil {
			return errors.Wrap(err, "pgpseal: unable to cross-sign signing subkey")
		}
		bindingSig.EmbeddedSignature = embeddedSig
	}
	if err := bindingSig.SignKey(&subKey.PublicKey, e.PrivateKey, config); err != nil {
		return errors.Wrap(err, "pgpseal: unable to bind subkey")
	}
	e.Subkeys = append(e.Subkeys, openpgp.Subkey{
		PublicKey:  &subKey.PublicKey,
		PrivateKey: subKey,
		Sig:        bindingSig,
	})
	return nil
}

func applyKeyFlags(sig *packet.Signature, flags KeyFlag) {
	sig.FlagsValid = true
	sig.FlagCertify = flags.has(KeyFlagCertify)
	sig.FlagSign = flags.has(KeyFlagSign)
	sig.FlagEncryptCommunications = flags.has(KeyFlagEncryptCommunications)
	sig.FlagEncryptStorage = flags.has(KeyFlagEncryptStorage)
	sig.FlagAuthenticate = flags.has(KeyFlagAuthenticate)
}

// materializeKeyRingPair splits the skeleton into the public and the
// secret ring. The public ring shares key packets with the secret one
// so fingerprints match pairwise by construction.
func materializeKeyRingPair(e *openpgp.Entity) KeyRingPair {
	public := &openpgp.Entity{
		PrimaryKey: e.PrimaryKey,
		Identities: e.Identities,
	}
	for i := range e.Subkeys {
		public.Subkeys = append(public.Subkeys, openpgp.Subkey{
			PublicKey: e.Subkeys[i].PublicKey,
			Sig:       e.Subkeys[i].Sig,
		})
	}
	return KeyRingPair{
		public: openpgp.EntityList{public},
		secret: openpgp.EntityList{e},
	}
}

// repairSubkeyPackets normalizes the protection state of every secret
// subkey packet to the passphrase choice of the build.
func repairSubkeyPackets(secret openpgp.EntityList, passphrase *Passphrase) error {
	protect := !passphrase.IsEmpty()
	for _, e := range secret {
		for i := range e.Subkeys {
			subKey := e.Subkeys[i].PrivateKey
			if subKey == nil {
				continue
			}
			switch {
			case protect && !subKey.Encrypted:
				if err := subKey.Encrypt(passphrase.Bytes()); err != nil {
					return errors.Wrap(err, "pgpseal: unable to protect subkey")
				}
			case !protect && subKey.Encrypted:
				if err := subKey.Decrypt(passphrase.Bytes()); err != nil {
					return errors.Wrap(err, "pgpseal: unable to unprotect subkey")
				}
			}
		}
	}
	return nil
}
