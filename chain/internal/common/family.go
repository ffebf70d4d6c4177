package common

// Protocol families supported by this framework. The family of a chain
// determines which client, signer and address formats apply to it.
const (
	FamilyEVM    = "evm"
	FamilySolana = "solana"
	FamilyCosmos = "cosmos"
)
