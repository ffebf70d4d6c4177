package registry

import (
	"fmt"
	"maps"
	"slices"
)

// Contract types recorded by the deployments this framework consumes.
const (
	ContractTypeMailbox                ContractType = "Mailbox"
	ContractTypeValidatorAnnounce      ContractType = "ValidatorAnnounce"
	ContractTypeInterchainGasPaymaster ContractType = "InterchainGasPaymaster"
)

// ContractAddresses holds the contract addresses a deployment recorded for one chain. Fields
// a deployment does not own are left empty.
type ContractAddresses struct {
	Mailbox                string
	ValidatorAnnounce      string
	InterchainGasPaymaster string
}

// Deployment is a read view over a contract registry. A chain is known to the deployment when
// the registry records the deployment's primary contract for it.
type Deployment interface {
	// Chains returns the sorted names of all chains known to the deployment.
	Chains() []string
	// AddressesFor returns the deployment's contract addresses on the chain. It fails when
	// the chain is unknown to the deployment.
	AddressesFor(chainName string) (ContractAddresses, error)
}

var (
	_ Deployment = (*CoreDeployment)(nil)
	_ Deployment = (*GasPaymentDeployment)(nil)
)

// CoreDeployment is the view over the core messaging registry. Its primary contract is the
// mailbox; the validator announce contract is carried when recorded.
type CoreDeployment struct {
	ab AddressBook
}

// NewCoreDeployment creates a core messaging deployment view over the address book.
func NewCoreDeployment(ab AddressBook) *CoreDeployment {
	return &CoreDeployment{ab: ab}
}

// Chains returns the sorted names of all chains with a recorded mailbox.
func (d *CoreDeployment) Chains() []string {
	return chainsWith(d.ab, ContractTypeMailbox)
}

// AddressesFor returns the mailbox and, when recorded, the validator announce address for the
// chain.
func (d *CoreDeployment) AddressesFor(chainName string) (ContractAddresses, error) {
	addrs, err := d.ab.AddressesForChain(chainName)
	if err != nil {
		return ContractAddresses{}, err
	}

	out := ContractAddresses{}
	for addr, tv := range addrs {
		switch tv.Type {
		case ContractTypeMailbox:
			out.Mailbox = addr
		case ContractTypeValidatorAnnounce:
			out.ValidatorAnnounce = addr
		}
	}

	if out.Mailbox == "" {
		return ContractAddresses{}, fmt.Errorf("chain %s: no %s recorded: %w",
			chainName, ContractTypeMailbox, ErrChainNotFound)
	}

	return out, nil
}

// GasPaymentDeployment is the view over the gas payment registry. Its primary contract is the
// interchain gas paymaster, which acts as the chain's post-dispatch hook.
type GasPaymentDeployment struct {
	ab AddressBook
}

// NewGasPaymentDeployment creates a gas payment deployment view over the address book.
func NewGasPaymentDeployment(ab AddressBook) *GasPaymentDeployment {
	return &GasPaymentDeployment{ab: ab}
}

// Chains returns the sorted names of all chains with a recorded interchain gas paymaster.
func (d *GasPaymentDeployment) Chains() []string {
	return chainsWith(d.ab, ContractTypeInterchainGasPaymaster)
}

// AddressesFor returns the interchain gas paymaster address for the chain.
func (d *GasPaymentDeployment) AddressesFor(chainName string) (ContractAddresses, error) {
	addrs, err := d.ab.AddressesForChain(chainName)
	if err != nil {
		return ContractAddresses{}, err
	}

	for addr, tv := range addrs {
		if tv.Type == ContractTypeInterchainGasPaymaster {
			return ContractAddresses{InterchainGasPaymaster: addr}, nil
		}
	}

	return ContractAddresses{}, fmt.Errorf("chain %s: no %s recorded: %w",
		chainName, ContractTypeInterchainGasPaymaster, ErrChainNotFound)
}

// chainsWith returns the sorted names of all chains recording at least one contract of the
// given type.
func chainsWith(ab AddressBook, typ ContractType) []string {
	addresses, err := ab.Addresses()
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(addresses))
	for chainName := range maps.Keys(addresses) {
		for _, tv := range addresses[chainName] {
			if tv.Type == typ {
				names = append(names, chainName)
				break
			}
		}
	}
	slices.Sort(names)

	return names
}
