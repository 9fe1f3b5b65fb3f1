package constants

// OpenPGP symmetric-key algorithm codes as defined in RFC 4880 §9.2.
// int8 type to match the other algorithm code enums.
const (
	SymmetricTripleDES int8 = 2
	SymmetricCAST5     int8 = 3
	SymmetricAES128    int8 = 7
	SymmetricAES192    int8 = 8
	SymmetricAES256    int8 = 9
)
