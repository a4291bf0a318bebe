// Package base58 implements the Bitcoin-alphabet base58 encoding used by
// Solana-style wallet addresses and signing seeds. No third-party library in
// the retrieval corpus provides this encoding, so it is implemented directly
// against the standard library (see DESIGN.md).
package base58

import (
	"errors"
	"math/big"
)

const alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

var ErrInvalidCharacter = errors.New("base58: invalid character")

var decodeMap [256]int8

func init() {
	for i := range decodeMap {
		decodeMap[i] = -1
	}

	for i, c := range alphabet {
		decodeMap[c] = int8(i)
	}
}

func Encode(input []byte) string {
	if len(input) == 0 {
		return ""
	}

	zeros := 0
	for zeros < len(input) && input[zeros] == 0 {
		zeros++
	}

	num := new(big.Int).SetBytes(input)
	base := big.NewInt(58)
	zero := big.NewInt(0)
	mod := new(big.Int)

	var out []byte
	for num.Cmp(zero) > 0 {
		num.DivMod(num, base, mod)
		out = append(out, alphabet[mod.Int64()])
	}

	for i := 0; i < zeros; i++ {
		out = append(out, alphabet[0])
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	return string(out)
}

func Decode(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}

	num := new(big.Int)
	base := big.NewInt(58)

	for _, c := range s {
		if c > 255 || decodeMap[c] == -1 {
			return nil, ErrInvalidCharacter
		}

		num.Mul(num, base)
		num.Add(num, big.NewInt(int64(decodeMap[c])))
	}

	decoded := num.Bytes()

	zeros := 0
	for zeros < len(s) && s[zeros] == alphabet[0] {
		zeros++
	}

	out := make([]byte, zeros+len(decoded))
	copy(out[zeros:], decoded)

	return out, nil
}
