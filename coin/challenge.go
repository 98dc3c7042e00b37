package coin

import (
	"fmt"
	"strings"
)

// ParamType is the declared type of an unlocking-script parameter slot.
type ParamType int

const (
	TypeBool ParamType = iota + 1
	TypeInt
	TypeBin
	TypePubKey
	TypeSig
	TypeDataSig
	TypeRipemd160
	TypeSha1
	TypeSha256
	TypeTime
	TypeTimeSpan
)

var paramTypeNames = map[ParamType]string{
	TypeBool:      "bool",
	TypeInt:       "int",
	TypeBin:       "bin",
	TypePubKey:    "PubKey",
	TypeSig:       "Sig",
	TypeDataSig:   "DataSig",
	TypeRipemd160: "Ripemd160",
	TypeSha1:      "Sha1",
	TypeSha256:    "Sha256",
	TypeTime:      "Time",
	TypeTimeSpan:  "TimeSpan",
}

// String returns the contract-language spelling of the type.
func (p ParamType) String() string {
	if name, ok := paramTypeNames[p]; ok {
		return name
	}
	return fmt.Sprintf("ParamType(%d)", int(p))
}

// Valid reports whether p is a known type.
func (p ParamType) Valid() bool {
	_, ok := paramTypeNames[p]
	return ok
}

// IsNumeric reports whether values of this type are script numbers.
func (p ParamType) IsNumeric() bool {
	return p == TypeInt || p == TypeTime || p == TypeTimeSpan
}

// FixedLen returns the exact byte length of fixed-width types, or 0.
func (p ParamType) FixedLen() int {
	switch p {
	case TypePubKey:
		return 33
	case TypeRipemd160, TypeSha1:
		return 20
	case TypeSha256:
		return 32
	default:
		return 0
	}
}

// ParseParamType maps a type name (case-insensitive) to a ParamType.
func ParseParamType(name string) (ParamType, error) {
	for t, n := range paramTypeNames {
		if strings.EqualFold(n, name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownParamType, name)
}

// Challenge is a named parameter slot a contract's unlocking script must fill.
type Challenge struct {
	Name string
	Type ParamType
	// Size is the maximum length of a bin value (0 when unbounded); other
	// types ignore it.
	Size int
}

// validateChallenges checks names are present and unique and types are known.
func validateChallenges(challenges []Challenge) error {
	if len(challenges) == 0 {
		return fmt.Errorf("%w: empty challenge list", ErrInvalidChallenge)
	}
	seen := make(map[string]bool, len(challenges))
	for i, c := range challenges {
		if c.Name == "" {
			return fmt.Errorf("%w: challenge[%d] has no name", ErrInvalidChallenge, i)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidChallenge, c.Name)
		}
		seen[c.Name] = true
		if !c.Type.Valid() {
			return fmt.Errorf("%w: challenge %q has type %v", ErrInvalidChallenge, c.Name, c.Type)
		}
		if c.Size < 0 {
			return fmt.Errorf("%w: challenge %q has negative size", ErrInvalidChallenge, c.Name)
		}
	}
	return nil
}
