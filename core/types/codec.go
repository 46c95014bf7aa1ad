package types

import (
	"github.com/tendermint/go-amino"
)

// Cdc encodes every persisted cell and every message exchanged between instances.
var Cdc = amino.NewCodec()

func init() {
	Cdc.Seal()
}

// Marshal encodes v with the shared codec.
func Marshal(v interface{}) ([]byte, error) {
	return Cdc.MarshalJSON(v)
}

// MustMarshal is Marshal that panics on error.
func MustMarshal(v interface{}) []byte {
	bz, err := Marshal(v)
	if err != nil {
		panic(err)
	}
	return bz
}

// Unmarshal decodes bz into ptr with the shared codec.
func Unmarshal(bz []byte, ptr interface{}) error {
	return Cdc.UnmarshalJSON(bz, ptr)
}
