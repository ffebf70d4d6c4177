package keys

import "fmt"

// Role is the operational purpose of an agent key. A key is always looked up for exactly one
// role; the same chain typically carries keys for several roles at once.
type Role string

const (
	RoleDeployer  Role = "deployer"
	RoleValidator Role = "validator"
	RoleRelayer   Role = "relayer"
)

// roles lists all valid roles.
var roles = []Role{RoleDeployer, RoleValidator, RoleRelayer}

// Validate checks that the role is one of the known roles.
func (r Role) Validate() error {
	for _, role := range roles {
		if r == role {
			return nil
		}
	}

	return fmt.Errorf("unknown role %q, valid roles: %v", string(r), roles)
}

func (r Role) String() string {
	return string(r)
}
