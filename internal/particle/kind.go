package particle

import (
	"errors"
	"fmt"
)

// Kind selects a particle's behavior.
type Kind uint8

const (
	Standard Kind = iota
	Audio
	Trail
	Fire
	Spark

	kindCount
)

var kindNames = [kindCount]string{"standard", "audio", "trail", "fire", "spark"}

// ErrUnknownKind is returned when parsing an unrecognized particle type name.
var ErrUnknownKind = errors.New("unknown particle type")

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Kinds returns every particle kind in declaration order.
func Kinds() []Kind {
	return []Kind{Standard, Audio, Trail, Fire, Spark}
}

// ParseKind maps a type name such as "fire" to its Kind.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if k >= kindCount {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Style is the primitive a particle is drawn with. It is picked at spawn and
// never changes.
type Style uint8

const (
	Box Style = iota
	Sphere
)

func (s Style) String() string {
	if s == Sphere {
		return "sphere"
	}
	return "box"
}
