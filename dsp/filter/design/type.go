package design

import (
	"fmt"
	"strings"
)

// Type identifies a filter response.
type Type int

const (
	TypeLowpass Type = iota + 1
	TypeHighpass
	TypeBandpass
)

var typeNames = map[Type]string{
	TypeLowpass:  "lowpass",
	TypeHighpass: "highpass",
	TypeBandpass: "bandpass",
}

// String returns the wire name of the filter type.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType converts a case-insensitive name ("lowpass", "highpass",
// "bandpass", or the short forms "lp", "hp", "bp") into a Type.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lowpass", "lp", "low":
		return TypeLowpass, nil
	case "highpass", "hp", "high":
		return TypeHighpass, nil
	case "bandpass", "bp", "band":
		return TypeBandpass, nil
	default:
		return 0, fmt.Errorf("unsupported filter type: %q", name)
	}
}

// Types returns all supported filter types in display order.
func Types() []Type {
	return []Type{TypeLowpass, TypeHighpass, TypeBandpass}
}
