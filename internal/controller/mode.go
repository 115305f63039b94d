package controller

import (
	"fmt"

	"github.com/kingrea/tcp-planner/internal/catalog"
)

// Mode is the placement state of the editor. It is one of Idle,
// SelectingSign or Placing; placing without a chosen sign cannot be
// expressed.
type Mode interface {
	fmt.Stringer
	isMode()
}

// Idle means no sign is chosen in the catalog panel.
type Idle struct{}

// SelectingSign means a sign is chosen but map clicks do not place it.
type SelectingSign struct {
	Sign catalog.SignDefinition
}

// Placing means the next plain map click places Sign.
type Placing struct {
	Sign catalog.SignDefinition
}

func (Idle) isMode()          {}
func (SelectingSign) isMode() {}
func (Placing) isMode()       {}

func (Idle) String() string            { return "idle" }
func (m SelectingSign) String() string { return "selected " + m.Sign.ID }
func (m Placing) String() string       { return "placing " + m.Sign.ID }

// SignOf returns the sign carried by a mode, if any.
func SignOf(m Mode) (catalog.SignDefinition, bool) {
	switch v := m.(type) {
	case SelectingSign:
		return v.Sign, true
	case Placing:
		return v.Sign, true
	default:
		return catalog.SignDefinition{}, false
	}
}

// IsPlacing reports whether m is the Placing mode.
func IsPlacing(m Mode) bool {
	_, ok := m.(Placing)
	return ok
}
