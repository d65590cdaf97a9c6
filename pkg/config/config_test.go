package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rioporto/p2p/pkg/types"
)

func TestMinLevelForFeature(t *testing.T) {
	c := &Config{FeatureTiers: []*FeatureTier{
		{Feature: types.FeatureP2PTrade, MinLevel: types.KYCLevelBasic},
		{Feature: types.FeatureCryptoWithdrawal, MinLevel: types.KYCLevelAdvanced},
	}}

	require.Equal(t, types.KYCLevelBasic, c.MinLevelForFeature(types.FeatureP2PTrade))
	require.Equal(t, types.KYCLevelAdvanced, c.MinLevelForFeature(types.FeatureCryptoWithdrawal))
}

func TestMinLevelForFeature_UnknownFeatureFailsClosed(t *testing.T) {
	c := &Config{}
	require.Equal(t, types.KYCLevelAdvanced, c.MinLevelForFeature(types.Feature("does_not_exist")))
}

func TestNew_Defaults(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	require.Equal(t, EnvDev, c.Env)
	require.Equal(t, 8888, c.Server.Port)
	require.Equal(t, 5, c.PixGateway.TimeoutSeconds)
	require.Equal(t, types.KYCLevelBasic, c.MinLevelForFeature(types.FeatureP2PTrade))
	require.Equal(t, types.KYCLevelIntermediate, c.MinLevelForFeature(types.FeatureBankTransfer))
}
