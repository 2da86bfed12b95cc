package client

// Param and result shapes mirroring the node's JSON-RPC surface.

type sendInstructionParams struct {
	Target      string `json:"target"`
	Instruction string `json:"instruction"`
	Writable    *bool  `json:"writable,omitempty"`
}

type sendInstructionResult struct {
	Ok bool `json:"ok"`
}

type getBalanceParams struct {
	Address string `json:"address"`
}

// AccountView is the caller-visible state of one account.
type AccountView struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
	Counter uint64 `json:"counter"`
}

type createAccountParams struct {
	Address string `json:"address"`
	Owner   string `json:"owner,omitempty"`
	Amount  uint64 `json:"amount,omitempty"`
}

type createAccountResult struct {
	Ok bool `json:"ok"`
}

type watchAccountParams struct {
	Address string `json:"address"`
	WaitMs  int    `json:"wait_ms,omitempty"`
}

// AccountUpdate is one observed change of a watched account.
type AccountUpdate struct {
	Updated bool   `json:"updated"`
	Balance uint64 `json:"balance"`
	Counter uint64 `json:"counter"`
	Seq     uint64 `json:"seq"`
}

type recentRefResult struct {
	Ref string `json:"ref"`
}
