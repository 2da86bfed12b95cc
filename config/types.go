package config

// StorageConfig selects the slot store backend.
type StorageConfig struct {
	Backend   string `yaml:"backend"`
	Directory string `yaml:"directory"`
	DSN       string `yaml:"dsn"`
}

// GenesisAccount provisions one account slot at node startup. Amount is the
// initial balance written into the slot; zero leaves the slot empty for
// first-use initialization.
type GenesisAccount struct {
	Address string `yaml:"address"`
	Owner   string `yaml:"owner"`
	Amount  uint64 `yaml:"amount"`
}

// NodeConfig configures the vaultd node.
type NodeConfig struct {
	ListenAddr  string        `yaml:"listen_addr"`
	MetricsAddr string        `yaml:"metrics_addr"`
	ProgramID   string        `yaml:"program_id"`
	Storage     StorageConfig `yaml:"storage"`
	Genesis     struct {
		Accounts []GenesisAccount `yaml:"accounts"`
	} `yaml:"genesis"`
}

// BalanceConfig configures the balance-query tool: one endpoint, many wallets.
type BalanceConfig struct {
	Endpoint string   `yaml:"endpoint"`
	Wallets  []string `yaml:"wallets"`
}

// TransferConfig configures the batch-transfer tool. Wallets holds hex ed25519
// private keys; each pairs positionally with a recipient address. Amount
// accepts underscore separators, e.g. "1_000". ProgramID is the identity the
// target accounts are provisioned under; it is claimed as the intended owner
// in every instruction.
type TransferConfig struct {
	Endpoint   string   `yaml:"endpoint"`
	ProgramID  string   `yaml:"program_id"`
	Wallets    []string `yaml:"wallets"`
	Recipients []string `yaml:"recipients"`
	Amount     string   `yaml:"amount"`
}

// WatchConfig configures the pool watcher: every observed update of the pool
// account triggers a deposit of Amount to the recipient.
type WatchConfig struct {
	Endpoint         string `yaml:"endpoint"`
	ProgramID        string `yaml:"program_id"`
	PoolAddress      string `yaml:"pool_address"`
	RecipientAddress string `yaml:"recipient_address"`
	Amount           string `yaml:"amount"`
	WaitMs           int    `yaml:"wait_ms"`
}
