// Package registry tracks the contract addresses of a deployment and derives per-chain
// routing configuration from them.
package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrChainNotFound  = errors.New("chain not found")
)

// ContractType is a simple string type for identifying contract types.
type ContractType string

func (ct ContractType) String() string {
	return string(ct)
}

// TypeAndVersion identifies what a recorded address points at. We store rather than derive it
// as some contracts do not expose their type and version onchain.
type TypeAndVersion struct {
	Type    ContractType   `json:"Type"`
	Version semver.Version `json:"Version"`
}

func (tv TypeAndVersion) String() string {
	return fmt.Sprintf("%s %s", tv.Type, tv.Version.String())
}

func (tv TypeAndVersion) Equal(other TypeAndVersion) bool {
	return tv.Type == other.Type && tv.Version.Equal(&other.Version)
}

func NewTypeAndVersion(t ContractType, v semver.Version) TypeAndVersion {
	return TypeAndVersion{
		Type:    t,
		Version: v,
	}
}

// TypeAndVersionFromString parses a "<Type> <Version>" string.
func TypeAndVersionFromString(s string) (TypeAndVersion, error) {
	parts := strings.Fields(s) // Ignores consecutive spaces
	if len(parts) != 2 {
		return TypeAndVersion{}, fmt.Errorf("invalid type and version string: %s", s)
	}
	v, err := semver.NewVersion(parts[1])
	if err != nil {
		return TypeAndVersion{}, err
	}

	return TypeAndVersion{
		Type:    ContractType(parts[0]),
		Version: *v,
	}, nil
}

func MustTypeAndVersionFromString(s string) TypeAndVersion {
	tv, err := TypeAndVersionFromString(s)
	if err != nil {
		panic(err)
	}

	return tv
}

// AddressBook is a simple interface for storing and retrieving contract addresses across
// chains. It is family agnostic as the keys are chain names. Addresses that parse as EVM hex
// addresses are always stored in EIP55 format.
// All methods return results in sorted order for consistent behavior.
type AddressBook interface {
	Save(chainName string, address string, tv TypeAndVersion) error
	Addresses() (map[string]map[string]TypeAndVersion, error)
	AddressesForChain(chainName string) (map[string]TypeAndVersion, error)
	// Allows for merging address books (e.g. new deployments with existing ones)
	Merge(other AddressBook) error
}

// AddressesByChain maps chain name to address to contract identity.
type AddressesByChain map[string]map[string]TypeAndVersion

type AddressBookMap struct {
	// Use TreeMap to maintain sorted order automatically
	addressesByChain *treemap.Map // map[string]*treemap.Map[string]TypeAndVersion
	mtx              sync.RWMutex
}

// save records an address for a chain. It will error if there is a conflicting existing
// address.
func (m *AddressBookMap) save(chainName string, address string, typeAndVersion TypeAndVersion) error {
	if chainName == "" {
		return errors.New("chain name cannot be empty")
	}

	if address == "" {
		return fmt.Errorf("address cannot be empty: %w", ErrInvalidAddress)
	}
	if common.IsHexAddress(address) {
		if address == common.HexToAddress("0x0").Hex() {
			return fmt.Errorf("address cannot be the zero address: %w", ErrInvalidAddress)
		}
		// IMPORTANT: WE ALWAYS STANDARDIZE ETHEREUM ADDRESS STRINGS TO EIP55
		address = common.HexToAddress(address).Hex()
	}

	if typeAndVersion.Type == "" {
		return errors.New("type cannot be empty")
	}

	// Get or create the TreeMap for this chain
	chainAddresses, exists := m.addressesByChain.Get(chainName)
	if !exists {
		// First time chain add, create TreeMap with string comparator for sorted addresses
		chainAddresses = treemap.NewWithStringComparator()
		m.addressesByChain.Put(chainName, chainAddresses)
	}

	chainMap := chainAddresses.(*treemap.Map)
	if _, exists := chainMap.Get(address); exists {
		return fmt.Errorf("address %s already exists for chain %s", address, chainName)
	}
	chainMap.Put(address, typeAndVersion)

	return nil
}

// Save records an address for a chain. It will error if there is a conflicting existing
// address. Thread safe version of the save method.
func (m *AddressBookMap) Save(chainName string, address string, typeAndVersion TypeAndVersion) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return m.save(chainName, address, typeAndVersion)
}

func (m *AddressBookMap) Addresses() (map[string]map[string]TypeAndVersion, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	result := make(map[string]map[string]TypeAndVersion)

	// Iterate through chains in sorted order (TreeMap automatically sorts by key)
	it := m.addressesByChain.Iterator()
	for it.Next() {
		chainName := it.Key().(string)
		chainMap := it.Value().(*treemap.Map)

		// Convert TreeMap to regular map for return value
		addresses := make(map[string]TypeAndVersion)
		chainIt := chainMap.Iterator()
		for chainIt.Next() {
			address := chainIt.Key().(string)
			tv := chainIt.Value().(TypeAndVersion)
			addresses[address] = tv
		}

		result[chainName] = addresses
	}

	return result, nil
}

func (m *AddressBookMap) AddressesForChain(chainName string) (map[string]TypeAndVersion, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	chainAddresses, exists := m.addressesByChain.Get(chainName)
	if !exists {
		return nil, fmt.Errorf("chain %s: %w", chainName, ErrChainNotFound)
	}

	chainMap := chainAddresses.(*treemap.Map)
	result := make(map[string]TypeAndVersion)

	// Iterate through addresses in sorted order
	it := chainMap.Iterator()
	for it.Next() {
		address := it.Key().(string)
		tv := it.Value().(TypeAndVersion)
		result[address] = tv
	}

	return result, nil
}

// ChainNames returns the sorted names of all chains with at least one recorded address.
func (m *AddressBookMap) ChainNames() []string {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	names := make([]string, 0, m.addressesByChain.Size())
	it := m.addressesByChain.Iterator()
	for it.Next() {
		names = append(names, it.Key().(string))
	}

	return names
}

// Merge will merge the addresses from another address book into this one.
// It will error on any existing addresses.
func (m *AddressBookMap) Merge(ab AddressBook) error {
	addresses, err := ab.Addresses()
	if err != nil {
		return err
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()

	for chainName, chainAddresses := range addresses {
		for address, typeAndVersion := range chainAddresses {
			if err := m.save(chainName, address, typeAndVersion); err != nil {
				return err
			}
		}
	}

	return nil
}

func NewMemoryAddressBook() *AddressBookMap {
	return &AddressBookMap{
		// Use TreeMap with string comparator to keep chains sorted
		addressesByChain: treemap.NewWithStringComparator(),
	}
}

func NewMemoryAddressBookFromMap(addressesByChain AddressesByChain) *AddressBookMap {
	ab := &AddressBookMap{
		addressesByChain: treemap.NewWithStringComparator(),
	}

	// Convert the input map to TreeMaps
	for chainName, addresses := range addressesByChain {
		chainMap := treemap.NewWithStringComparator()
		for address, tv := range addresses {
			if common.IsHexAddress(address) {
				address = common.HexToAddress(address).Hex()
			}
			chainMap.Put(address, tv)
		}
		ab.addressesByChain.Put(chainName, chainMap)
	}

	return ab
}

// SearchAddressBook searches an address book for a given chain and contract type and returns
// the first matching address.
func SearchAddressBook(ab AddressBook, chainName string, typ ContractType) (string, error) {
	addrs, err := ab.AddressesForChain(chainName)
	if err != nil {
		return "", err
	}

	for addr, tv := range addrs {
		if tv.Type == typ {
			return addr, nil
		}
	}

	return "", errors.New("not found")
}
