package constants

// OpenPGP hash algorithm codes as defined in RFC 4880 §9.4.
const (
	HashSHA1   int8 = 2
	HashSHA256 int8 = 8
	HashSHA384 int8 = 9
	HashSHA512 int8 = 10
	HashSHA224 int8 = 11
)
