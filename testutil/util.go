package testutil

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	xc "github.com/cordialsys/crosschain-avax"
)

func FromHex(s string) []byte {
	bz, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		panic(err)
	}
	return bz
}

func HumanToBlockchain(amount string, decimals int) xc.AmountBlockchain {
	h, err := xc.NewAmountHumanReadableFromStr(amount)
	if err != nil {
		panic(err)
	}
	return h.ToBlockchain(int32(decimals))
}

// ID returns an id whose first byte is b and the rest zero.
func ID(b byte) ids.ID {
	return ids.ID{b}
}

func ShortID(s string) ids.ShortID {
	var id ids.ShortID
	copy(id[:], FromHex(s))
	return id
}

func JsonPrint(a any) {
	bz, _ := json.MarshalIndent(a, "", "  ")
	fmt.Println(string(bz))
}

func Ref[T any](s T) *T {
	return &s
}
