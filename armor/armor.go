// Package armor contains a set of helper methods for armoring and unarmoring
// data.
package armor

import (
	"bytes"
	"io"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/pgpseal/pgpseal/constants"
	"github.com/pgpseal/pgpseal/internal"
	"github.com/pkg/errors"
)

// ArmorKey armors input as a public key.
func ArmorKey(input []byte) (string, error) {
	return ArmorWithType(input, constants.PublicKeyHeader)
}

// ArmorWriterWithType returns a io.WriteCloser which, when written to, writes
// armored data to w with the given armorType.
func ArmorWriterWithType(w io.Writer, armorType string) (io.WriteCloser, error) {
	return armor.Encode(w, armorType, internal.ArmorHeaders)
}

// ArmorWithType armors input with the given armorType.
func ArmorWithType(input []byte, armorType string) (string, error) {
	var b bytes.Buffer
	w, err := armor.Encode(&b, armorType, internal.ArmorHeaders)
	if err != nil {
		return "", errors.Wrap(err, "pgpseal: unable to encode armoring")
	}
	if _, err = w.Write(input); err != nil {
		return "", errors.Wrap(err, "pgpseal: unable to write armored data")
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "pgpseal: unable to close armor writer")
	}
	return b.String(), nil
}

// ArmorReader returns a io.Reader which, when read, reads unarmored data
// from in.
func ArmorReader(in io.Reader) (io.Reader, error) {
	block, err := armor.Decode(in)
	if err != nil {
		return nil, errors.Wrap(err, "pgpseal: unable to decode armoring")
	}
	return block.Body, nil
}

// Unarmor unarmors an armored string.
func Unarmor(input string) ([]byte, error) {
	block, err := armor.Decode(strings.NewReader(input))
	if err != nil {
		return nil, errors.Wrap(err, "pgpseal: unable to unarmor")
	}
	return io.ReadAll(block.Body)
}

// IsArmored reports whether in starts with an armor begin line.
// It only inspects the first bytes, the caller still has to handle
// decode failures on malformed input.
func IsArmored(in []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(in, " \t\r\n"), []byte("-----BEGIN PGP"))
}
