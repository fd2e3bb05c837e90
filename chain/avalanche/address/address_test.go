package address_test

import (
	"strings"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	xc "github.com/cordialsys/crosschain-avax"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/address"
	"github.com/cordialsys/crosschain-avax/testutil"
	"github.com/stretchr/testify/require"
)

func TestGetAddressFromPublicKey(t *testing.T) {
	vectors := []struct {
		name     string
		builder  address.AddressBuilder
		pubkey   string
		expected string
	}{
		{"c-chain", address.NewHexAddressBuilder(), testutil.EwoqPublicKey, testutil.EwoqCAddress},
		{"p-local", address.NewBech32AddressBuilder(xc.AliasP, 12345), testutil.EwoqPublicKey, testutil.EwoqPAddressLocal},
		{"p-fuji", address.NewBech32AddressBuilder(xc.AliasP, 5), testutil.EwoqPublicKey, testutil.EwoqPAddressFuji},
		{"p-mainnet", address.NewBech32AddressBuilder(xc.AliasP, 1), testutil.EwoqPublicKey, testutil.EwoqPAddressMain},
		{"x-fuji", address.NewBech32AddressBuilder(xc.AliasX, 5), testutil.EwoqPublicKey, "X-fuji18jma8ppw3nhx5r4ap8clazz0dps7rv5u6wmu4t"},
		{"other c-chain", address.NewHexAddressBuilder(), testutil.OtherPublicKey, testutil.OtherCAddress},
		{"other p-fuji", address.NewBech32AddressBuilder(xc.AliasP, 5), testutil.OtherPublicKey, testutil.OtherPAddressFuji},
	}
	for _, v := range vectors {
		t.Run(v.name, func(t *testing.T) {
			addr, err := v.builder.GetAddressFromPublicKey(testutil.FromHex(v.pubkey))
			require.NoError(t, err)
			require.EqualValues(t, v.expected, addr)
		})
	}

	_, err := address.NewHexAddressBuilder().GetAddressFromPublicKey([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestShortIDFromPublicKey(t *testing.T) {
	short, err := address.ShortIDFromPublicKey(testutil.FromHex(testutil.EwoqPublicKey))
	require.NoError(t, err)
	require.Equal(t, testutil.ShortID(testutil.EwoqShortID), short)
	require.Equal(t, testutil.EwoqShortIDCB58, short.String())
}

func TestHRP(t *testing.T) {
	require.Equal(t, "avax", address.HRP(1))
	require.Equal(t, "fuji", address.HRP(5))
	require.Equal(t, "local", address.HRP(12345))
	require.Equal(t, "custom", address.HRP(99))
}

func TestHexRoundTrip(t *testing.T) {
	vectors := []struct {
		input string
		err   bool
	}{
		{testutil.EwoqCAddress, false},
		{strings.ToLower(testutil.EwoqCAddress), false},
		{"0x" + strings.ToUpper(testutil.EwoqCAddress[2:]), false},
		// one letter flipped breaks the checksum
		{"0x8Db97C7cEcE249c2b98bDC0226Cc4C2A57BF52FC", true},
		{"8db97C7cEcE249c2b98bDC0226Cc4C2A57BF52FC", true},
		{"0x8db97C7cEcE249c2b98bDC0226Cc4C2A57BF52", true},
		{"0xzzb97C7cEcE249c2b98bDC0226Cc4C2A57BF52FC", true},
		{"", true},
	}
	for _, v := range vectors {
		t.Run(v.input, func(t *testing.T) {
			short, err := address.ParseHex(v.input)
			if v.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			// always formats to the checksummed form, which parses back to the same bytes
			formatted := address.FormatHex(short)
			require.Equal(t, testutil.EwoqCAddress, formatted)
			again, err := address.ParseHex(formatted)
			require.NoError(t, err)
			require.Equal(t, short, again)
		})
	}
}

func TestBech32RoundTrip(t *testing.T) {
	require := require.New(t)
	short := testutil.ShortID(testutil.EwoqShortID)

	formatted, err := address.FormatBech32("P", "fuji", short)
	require.NoError(err)
	require.Equal(testutil.EwoqPAddressFuji, formatted)

	alias, hrp, parsed, err := address.ParseBech32(formatted)
	require.NoError(err)
	require.Equal("P", alias)
	require.Equal("fuji", hrp)
	require.Equal(short, parsed)

	// without a chain alias
	bare, err := address.FormatBech32("", "fuji", short)
	require.NoError(err)
	require.Equal(strings.TrimPrefix(testutil.EwoqPAddressFuji, "P-"), bare)
	alias, _, parsed, err = address.ParseBech32(bare)
	require.NoError(err)
	require.Equal("", alias)
	require.Equal(short, parsed)

	// every byte pattern survives
	for _, b := range []byte{0x00, 0x01, 0x7f, 0xff} {
		var id ids.ShortID
		for i := range id {
			id[i] = b
		}
		s, err := address.FormatBech32("X", "avax", id)
		require.NoError(err)
		_, _, back, err := address.ParseBech32(s)
		require.NoError(err)
		require.Equal(id, back)
	}
}

func TestParseBech32Invalid(t *testing.T) {
	vectors := []string{
		"",
		"P-",
		"-fuji18jma8ppw3nhx5r4ap8clazz0dps7rv5u6wmu4t",
		// bad checksum
		"P-fuji18jma8ppw3nhx5r4ap8clazz0dps7rv5u6wmu4q",
		// 19 byte payload
		"P-fuji1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqjvhqj4",
	}
	for _, v := range vectors {
		_, _, _, err := address.ParseBech32(v)
		require.ErrorIs(t, err, address.ErrInvalidBech32, v)
	}
}

func TestParse(t *testing.T) {
	require := require.New(t)
	expected := testutil.ShortID(testutil.EwoqShortID)

	short, err := address.Parse(xc.Address(testutil.EwoqPAddressLocal))
	require.NoError(err)
	require.Equal(expected, short)

	eth, err := address.Parse(xc.Address(testutil.EwoqCAddress))
	require.NoError(err)
	require.Equal(testutil.ShortID("8db97c7cece249c2b98bdc0226cc4c2a57bf52fc"), eth)

	short, err = address.ParseOnChain(xc.Address(testutil.EwoqPAddressFuji), "P", "fuji")
	require.NoError(err)
	require.Equal(expected, short)

	_, err = address.ParseOnChain(xc.Address(testutil.EwoqPAddressFuji), "X", "fuji")
	require.ErrorContains(err, "not on chain X")
	_, err = address.ParseOnChain(xc.Address(testutil.EwoqPAddressFuji), "P", "avax")
	require.ErrorContains(err, "hrp")
	_, err = address.ParseOnChain(xc.Address(strings.TrimPrefix(testutil.EwoqPAddressFuji, "P-")), "P", "fuji")
	require.ErrorContains(err, "no chain alias")
}

func TestSortShortIDs(t *testing.T) {
	addrs := []ids.ShortID{
		testutil.ShortID(testutil.OtherShortID),
		testutil.ShortID(testutil.EwoqShortID),
		testutil.ShortID(testutil.ThirdShortID),
	}
	address.SortShortIDs(addrs)
	require.Equal(t, []ids.ShortID{
		testutil.ShortID(testutil.EwoqShortID),
		testutil.ShortID(testutil.ThirdShortID),
		testutil.ShortID(testutil.OtherShortID),
	}, addrs)
}
