package domain

// UpdateFlag is a lifecycle event sent by the host to a plugin model.
type UpdateFlag int

const (
	FlagInit UpdateFlag = iota
	FlagModify
	FlagPeriod
	FlagPause
	FlagUnpause
	FlagExit
)

func (f UpdateFlag) String() string {
	switch f {
	case FlagInit:
		return "init"
	case FlagModify:
		return "modify"
	case FlagPeriod:
		return "period"
	case FlagPause:
		return "pause"
	case FlagUnpause:
		return "unpause"
	case FlagExit:
		return "exit"
	}
	return "unknown"
}

// VariableKind tells the host how a variable is wired.
type VariableKind string

const (
	VariableInput     VariableKind = "input"
	VariableOutput    VariableKind = "output"
	VariableParameter VariableKind = "parameter"
	VariableState     VariableKind = "state"
)

// Variable describes one entry of the plugin variable table.
type Variable struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Kind        VariableKind `json:"kind"`
}
