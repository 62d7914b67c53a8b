package transaction

import (
	"github.com/spf13/viper"
)

// FetcherConfig holds the network endpoints TxFetcher talks to. A
// legacytx.yaml (or LEGACYTX_* environment variables) overrides the
// defaults; neither is required.
type FetcherConfig struct {
	MainnetBaseURL string `mapstructure:"mainnet_base_url"`
	TestnetBaseURL string `mapstructure:"testnet_base_url"`
}

// LoadFetcherConfig reads FetcherConfig from ./legacytx.{yaml,json} and the
// environment, falling back to the public blockstream.info endpoints when
// neither is present.
func LoadFetcherConfig() FetcherConfig {
	v := viper.New()
	v.SetConfigName("legacytx")
	v.AddConfigPath(".")
	v.SetEnvPrefix("LEGACYTX")
	v.AutomaticEnv()

	v.SetDefault("mainnet_base_url", "https://blockstream.info/api")
	v.SetDefault("testnet_base_url", "https://blockstream.info/testnet/api")

	// the config file is optional: a missing file just means the
	// defaults (or env overrides) apply.
	_ = v.ReadInConfig()

	return FetcherConfig{
		MainnetBaseURL: v.GetString("mainnet_base_url"),
		TestnetBaseURL: v.GetString("testnet_base_url"),
	}
}
