package constants

const (
	// Use no compression.
	NoCompression int8 = 0
	// Use compression defined by the profile.
	DefaultCompression int8 = 1
	// Use ZIP compression.
	ZIPCompression int8 = 2
	// Use ZLIB compression (default for encrypted messages).
	ZLIBCompression int8 = 3
)
