package keys

import "context"

// KeyRequest identifies a single agent key within a key store.
type KeyRequest struct {
	// Environment is the deployment environment the key belongs to.
	Environment string
	// Context names the agent deployment whose keys are being resolved.
	Context string
	// ChainName is the chain the key signs for.
	ChainName string
	// ChainFamily is the protocol family of the chain, which determines the key type.
	ChainFamily string
	// Role is the operational purpose of the key.
	Role Role
	// Index distinguishes multiple keys held for the same role, for example several
	// validators on one chain. It defaults to 0.
	Index int
}

// Store materializes agent keys. Implementations range from in-memory stores holding raw key
// material to managed signing services that never release it. GetKey may perform I/O and
// must honor ctx cancellation.
type Store interface {
	GetKey(ctx context.Context, req KeyRequest) (AgentKey, error)
}
