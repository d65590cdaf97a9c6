package types

// KYCLevel is the verification tier of a user account. Levels are strictly
// ordered; feature gating is a total-order comparison against a minimum level.
type KYCLevel int

const (
	KYCLevelPlatformAccess KYCLevel = 0
	KYCLevelBasic          KYCLevel = 1
	KYCLevelIntermediate   KYCLevel = 2
	KYCLevelAdvanced       KYCLevel = 3
)

// AtLeast reports whether the level satisfies the required minimum.
func (l KYCLevel) AtLeast(required KYCLevel) bool {
	return l >= required
}

func (l KYCLevel) Valid() bool {
	return l >= KYCLevelPlatformAccess && l <= KYCLevelAdvanced
}

func (l KYCLevel) String() string {
	switch l {
	case KYCLevelPlatformAccess:
		return "platform_access"
	case KYCLevelBasic:
		return "basic"
	case KYCLevelIntermediate:
		return "intermediate"
	case KYCLevelAdvanced:
		return "advanced"
	}
	return "unknown"
}

// Feature identifies a gated capability. The feature -> minimum level mapping
// lives in configuration, not here.
type Feature string

const (
	FeatureP2PTrade         Feature = "p2p_trade"
	FeaturePixDeposit       Feature = "pix_deposit"
	FeatureBankTransfer     Feature = "bank_transfer"
	FeatureCryptoWithdrawal Feature = "crypto_withdrawal"
)
