package testutil

// Well known local network key, funded in the default local genesis.
const (
	EwoqPrivateKeyHex  = "56289e99c94b6912bfc12adc093c9b51124f0dc54ac7a766b2bc5ccf558d8027"
	EwoqPrivateKeyCB58 = "PrivateKey-ewoqjP7PxY4yr3iLTpLisriqt94hdyDFNgchSxGGztUrTXtNN"
	EwoqPublicKey      = "0327448e78ffa8cdb24cf19be0204ad954b1bdb4db8c51183534c1eecf2ebd094e"
	EwoqShortID        = "3cb7d3842e8cee6a0ebd09f1fe884f6861e1b29c"
	EwoqShortIDCB58    = "6Y3kysjF9jnHnYkdS9yGAuoHyae2eNmeV"
	EwoqCAddress       = "0x8db97C7cEcE249c2b98bDC0226Cc4C2A57BF52FC"
	EwoqPAddressLocal  = "P-local18jma8ppw3nhx5r4ap8clazz0dps7rv5u00z96u"
	EwoqPAddressFuji   = "P-fuji18jma8ppw3nhx5r4ap8clazz0dps7rv5u6wmu4t"
	EwoqPAddressMain   = "P-avax18jma8ppw3nhx5r4ap8clazz0dps7rv5ukulre5"
)

// A second, unrelated key (0x11 repeated).
const (
	OtherPrivateKeyHex  = "1111111111111111111111111111111111111111111111111111111111111111"
	OtherPrivateKeyCB58 = "PrivateKey-8WwpJCixn9cKe3jAyXvxNeo5JrBFKj43ULkUeTfeLMqQJgouM"
	OtherPublicKey      = "034f355bdcb7cc0af728ef3cceb9615d90684bb5b2ca5f859ab0f0b704075871aa"
	OtherShortID        = "fc7250a211deddc70ee5a2738de5f07817351cef"
	OtherCAddress       = "0x19E7E376E7C213B7E7e7e46cc70A5dD086DAff2A"
	OtherPAddressFuji   = "P-fuji1l3e9pgs3mmwuwrh95fecme0s0qtn2880s6mdum"
)

// A third key (0x22 repeated).
const (
	ThirdPrivateKeyHex = "2222222222222222222222222222222222222222222222222222222222222222"
	ThirdShortID       = "531260aa2a199e228c537dfa42c82bea2c7c1f4d"
	ThirdCAddress      = "0x1563915e194D8CfBA1943570603F7606A3115508"
	ThirdPAddressFuji  = "P-fuji12vfxp232rx0z9rzn0hay9jptagk8c86d2yzz0e"
)
