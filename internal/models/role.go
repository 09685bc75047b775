package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Role is a single account capability tag.
type Role uint8

const (
	RoleUser Role = 1 << iota
	RoleVolunteer
	RoleNGO
	RoleAdmin
)

var roleNames = []struct {
	role Role
	name string
}{
	{RoleUser, "user"},
	{RoleVolunteer, "volunteer"},
	{RoleNGO, "ngo"},
	{RoleAdmin, "admin"},
}

func (r Role) String() string {
	for _, rn := range roleNames {
		if rn.role == r {
			return rn.name
		}
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// ParseRole maps a role name to its tag.
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, rn := range roleNames {
		if rn.name == s {
			return rn.role, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// RoleSet is a bit set of Role tags. It is persisted as an integer column
// and serialized to JSON as an array of role names.
type RoleSet uint8

func RoleSetOf(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s |= RoleSet(r)
	}
	return s
}

func (s RoleSet) Has(r Role) bool {
	return s&RoleSet(r) != 0
}

func (s RoleSet) With(r Role) RoleSet {
	return s | RoleSet(r)
}

func (s RoleSet) Names() []string {
	names := make([]string, 0, len(roleNames))
	for _, rn := range roleNames {
		if s.Has(rn.role) {
			names = append(names, rn.name)
		}
	}
	return names
}

func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

func (s *RoleSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		// legacy comma-joined role string
		var joined string
		if err2 := json.Unmarshal(data, &joined); err2 != nil {
			return err
		}
		names = strings.Split(joined, ",")
	}
	var out RoleSet
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		r, err := ParseRole(n)
		if err != nil {
			return err
		}
		out = out.With(r)
	}
	*s = out
	return nil
}

// Value implements the driver.Valuer interface
func (s RoleSet) Value() (driver.Value, error) {
	return int64(s), nil
}

// Scan implements the sql.Scanner interface
func (s *RoleSet) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = 0
	case int64:
		*s = RoleSet(v)
	case int32:
		*s = RoleSet(v)
	case []byte:
		var n int64
		if _, err := fmt.Sscan(string(v), &n); err != nil {
			return err
		}
		*s = RoleSet(n)
	case string:
		var n int64
		if _, err := fmt.Sscan(v, &n); err != nil {
			return err
		}
		*s = RoleSet(n)
	default:
		return fmt.Errorf("unsupported role set type %T", value)
	}
	return nil
}
