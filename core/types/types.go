package types

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/cosmos/cosmos-sdk/types/bech32"
)

const (
	AddressLength = 20
)

// Bech32Prefix is the human readable part of every address rendered by the node.
var Bech32Prefix = "mx"

/////////// Address

type Address [AddressLength]byte

func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

// StringToAddress builds an address from raw string bytes. Useful for fixtures only.
func StringToAddress(s string) Address { return BytesToAddress([]byte(s)) }

// ParseAddress decodes a bech32 address with the current prefix.
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return Address{}, fmt.Errorf("empty address")
	}

	hrp, data, err := bech32.DecodeAndConvert(s)
	if err != nil {
		return Address{}, fmt.Errorf("invalid address %q: %v", s, err)
	}

	if hrp != Bech32Prefix {
		return Address{}, fmt.Errorf("invalid address %q: expected prefix %q, got %q", s, Bech32Prefix, hrp)
	}

	if len(data) != AddressLength {
		return Address{}, fmt.Errorf("invalid address %q: expected %d bytes, got %d", s, AddressLength, len(data))
	}

	return BytesToAddress(data), nil
}

// MustParseAddress is ParseAddress that panics on error.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Address) Bytes() []byte { return a[:] }

func (a Address) Hex() string {
	return hex.EncodeToString(a[:])
}

// String implements the stringer interface and is used also by the logger.
func (a Address) String() string {
	s, err := bech32.ConvertAndEncode(Bech32Prefix, a[:])
	if err != nil {
		panic(err)
	}
	return s
}

func (a Address) IsEmpty() bool {
	return a == Address{}
}

// Sets the address to the value of b. If b is larger than len(a) only the last bytes are taken
func (a *Address) SetBytes(b []byte) {
	if len(b) > len(a) {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

func (a Address) Compare(a2 Address) int {
	return bytes.Compare(a[:], a2[:])
}
