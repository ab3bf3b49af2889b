package authz

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/99minutos/employee-portal/internal/core/domain"
)

//go:embed default_policy.yaml
var defaultPolicy []byte

// Policy maps each role to the permissions it grants.
type Policy struct {
	grants map[domain.Role][]domain.Permission
}

type policyFile struct {
	Roles map[string][]string `yaml:"roles"`
}

// DefaultPolicy returns the embedded role grants.
func DefaultPolicy() *Policy {
	p, err := ParsePolicy(defaultPolicy)
	if err != nil {
		panic(fmt.Sprintf("authz: embedded policy is invalid: %v", err))
	}
	return p
}

// LoadPolicy reads a policy from path. An empty path yields the default.
func LoadPolicy(path string) (*Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy %s: %w", path, err)
	}
	return ParsePolicy(b)
}

// ParsePolicy decodes YAML grants and rejects unknown roles or permissions.
func ParsePolicy(b []byte) (*Policy, error) {
	var f policyFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decode policy: %w", err)
	}
	if len(f.Roles) == 0 {
		return nil, fmt.Errorf("policy defines no roles")
	}

	p := &Policy{grants: make(map[domain.Role][]domain.Permission, len(f.Roles))}
	for name, perms := range f.Roles {
		role := domain.Role(name)
		if !role.Valid() {
			return nil, fmt.Errorf("policy: unknown role %q", name)
		}
		for _, raw := range perms {
			perm := domain.Permission(raw)
			if !domain.KnownPermission(perm) {
				return nil, fmt.Errorf("policy: role %q grants unknown permission %q", name, raw)
			}
			p.grants[role] = append(p.grants[role], perm)
		}
	}
	return p, nil
}

// Grants returns the permissions of role. Unknown roles get none.
func (p *Policy) Grants(role domain.Role) []domain.Permission {
	return append([]domain.Permission(nil), p.grants[role]...)
}

// Principal binds an identity to its granted permission set.
func (p *Policy) Principal(identity domain.Identity) *domain.Principal {
	return domain.NewPrincipal(identity, p.grants[identity.Role])
}
