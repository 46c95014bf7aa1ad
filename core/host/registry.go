package host

import (
	"encoding/binary"
	"sort"

	"github.com/MinterTeam/minter-membership/core/code"
	"github.com/MinterTeam/minter-membership/core/store"
	"github.com/MinterTeam/minter-membership/core/types"
	"golang.org/x/crypto/sha3"
)

const (
	contractPrefix = "contract/"
	dataPrefix     = "data/"
)

var (
	instanceSeq = store.NewItem("instance_seq")
	blockItem   = store.NewItem("block")
)

// Instance describes a contract instance known to the App.
type Instance struct {
	Address string `json:"address"`
	CodeID  uint64 `json:"code_id"`
	Seq     uint64 `json:"seq"`
	Creator string `json:"creator"`
	Admin   string `json:"admin,omitempty"`
	Label   string `json:"label,omitempty"`
}

type blockState struct {
	Height uint64 `json:"height"`
	Time   int64  `json:"time"`
}

func instanceKey(addr types.Address) []byte {
	return append([]byte(contractPrefix), addr.Bytes()...)
}

// instanceStore is the namespace an instance sees as its own Storage.
func instanceStore(s store.KVStore, addr types.Address) store.KVStore {
	prefix := append([]byte(dataPrefix), addr.Bytes()...)
	return store.NewPrefixStore(s, append(prefix, '/'))
}

// instanceAddress derives the address of the seq-th instance of codeID.
func instanceAddress(codeID, seq uint64) types.Address {
	b := make([]byte, 16)
	binary.BigEndian.PutUint64(b, codeID)
	binary.BigEndian.PutUint64(b[8:], seq)

	hash := sha3.NewLegacyKeccak256()
	hash.Write([]byte("instance"))
	hash.Write(b)
	return types.BytesToAddress(hash.Sum(nil)[12:])
}

func nextInstanceSeq(s store.KVStore) (uint64, error) {
	var seq uint64
	if _, err := instanceSeq.MayLoad(s, &seq); err != nil {
		return 0, err
	}
	seq++
	return seq, instanceSeq.Save(s, seq)
}

func saveInstance(s store.KVStore, addr types.Address, instance Instance) error {
	return store.NewItem(string(instanceKey(addr))).Save(s, instance)
}

func loadInstance(s store.KVStore, address string) (types.Address, *Instance, error) {
	addr, err := types.ParseAddress(address)
	if err != nil {
		return types.Address{}, nil, code.NewInvalidAddress(address, err.Error())
	}

	var instance Instance
	ok, err := store.NewItem(string(instanceKey(addr))).MayLoad(s, &instance)
	if err != nil {
		return addr, nil, err
	}
	if !ok {
		return addr, nil, code.NewContractNotFound(address)
	}
	return addr, &instance, nil
}

func instancesByCode(s store.KVStore, codeID uint64) ([]Instance, error) {
	prefix := []byte(contractPrefix)
	it := s.Iterator(prefix, store.PrefixEnd(prefix))
	defer it.Close()

	var instances []Instance
	for ; it.Valid(); it.Next() {
		var instance Instance
		if err := types.Unmarshal(it.Value(), &instance); err != nil {
			return nil, err
		}
		if instance.CodeID != codeID {
			continue
		}
		instances = append(instances, instance)
	}

	sort.Slice(instances, func(i, j int) bool { return instances[i].Seq < instances[j].Seq })
	return instances, nil
}
