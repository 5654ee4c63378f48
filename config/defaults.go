package config

// DefaultMainnet returns the default SDK configuration for mainnet.
func DefaultMainnet() *Config {
	return &Config{
		Network: Mainnet,
		DataDir: DefaultDataDir(),
		Backend: BackendConfig{
			BaseURL:        "https://api.halcyongames.com/api",
			TimeoutSeconds: 30,
		},
		Evm: EvmConfig{
			RPCURL:       "https://polygon-rpc.com",
			ChainID:      137,
			Tokens:       map[string]string{},
			GasPriceGwei: 30,
		},
		Solana: SolanaConfig{
			RPCURL:     "https://api.mainnet-beta.solana.com",
			Commitment: "confirmed",
		},
		Storage: StorageConfig{
			Backend: "badger",
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// DefaultTestnet returns the default SDK configuration for testnet.
func DefaultTestnet() *Config {
	cfg := DefaultMainnet()
	cfg.Network = Testnet
	cfg.Backend.BaseURL = "https://api-dev.halcyongames.com/api"
	cfg.Evm.RPCURL = "https://rpc-amoy.polygon.technology"
	cfg.Evm.ChainID = 80002
	cfg.Evm.GasPriceGwei = 1
	cfg.Solana.RPCURL = "https://api.devnet.solana.com"
	return cfg
}

// Default returns the default SDK configuration for the given network.
func Default(network NetworkType) *Config {
	switch network {
	case Testnet:
		return DefaultTestnet()
	default:
		return DefaultMainnet()
	}
}
