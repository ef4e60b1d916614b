package bump

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/trackbump/pkg/errors"
)

// Mode selects a layout policy.
type Mode int

const (
	// ModeUnbump discards column assignments and restores pre-bump offsets.
	ModeUnbump Mode = iota
	// ModeAll gives every visible feature its own column.
	ModeAll
	// ModeOverlap packs features into the fewest non-overlapping columns.
	ModeOverlap
	// ModeAlternating alternates features between two columns.
	ModeAlternating
)

var modeNames = [...]string{
	ModeUnbump:      "unbump",
	ModeAll:         "all",
	ModeOverlap:     "overlap",
	ModeAlternating: "alternating",
}

// namedModes maps the display layer's named bump styles onto the policy
// that implements them.
var namedModes = map[string]Mode{
	"name-interleave":    ModeOverlap,
	"name-no-interleave": ModeAll,
	"start-position":     ModeAll,
	"name-colinear":      ModeOverlap,
	"name-best-ends":     ModeOverlap,
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool { return m >= 0 && int(m) < len(modeNames) }

// ParseMode resolves a canonical or named mode, case-insensitively.
func ParseMode(s string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if key == name {
			return Mode(m), nil
		}
	}
	if m, ok := namedModes[key]; ok {
		return m, nil
	}
	return ModeUnbump, errors.New(errors.ErrCodeInvalidMode,
		"unknown bump mode %q (must be one of: %s)", s, strings.Join(ModeNames(), ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidMode, "invalid bump mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ModeInfo describes one accepted mode name.
type ModeInfo struct {
	Name   string `json:"name"`
	Policy Mode   `json:"policy"`
	Named  bool   `json:"named"`
}

// Modes lists every accepted mode name: canonical modes first, then the
// named variants in alphabetical order.
func Modes() []ModeInfo {
	out := make([]ModeInfo, 0, len(modeNames)+len(namedModes))
	for m, name := range modeNames {
		out = append(out, ModeInfo{Name: name, Policy: Mode(m)})
	}
	named := make([]string, 0, len(namedModes))
	for name := range namedModes {
		named = append(named, name)
	}
	slices.Sort(named)
	for _, name := range named {
		out = append(out, ModeInfo{Name: name, Policy: namedModes[name], Named: true})
	}
	return out
}

// ModeNames returns every accepted mode name.
func ModeNames() []string {
	infos := Modes()
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names
}
