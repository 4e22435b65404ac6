package schedule

import (
	"errors"
	"fmt"
	"strconv"
)

// Field names accepted by ParseEdit. They match the JSON keys of model.ScheduleRecord.
const (
	FieldCaster     = "casterId"
	FieldForecaster = "forecasterId"
	FieldCrosstalk  = "hasCrosstalk"
)

// ErrUnknownField is returned by ParseEdit for a field outside the closed set.
var ErrUnknownField = errors.New("unknown schedule field")

// Edit is a single change to one program's record. The set of implementations
// is closed: SetCaster, SetForecaster and SetCrosstalk.
type Edit interface {
	Program() string
	Field() string
	edit()
}

// SetCaster assigns a caster. An empty CasterID clears the assignment.
type SetCaster struct {
	ProgramID string
	CasterID  string
}

// SetForecaster assigns a forecaster. An empty ForecasterID clears the assignment.
type SetForecaster struct {
	ProgramID    string
	ForecasterID string
}

// SetCrosstalk toggles the crosstalk flag.
type SetCrosstalk struct {
	ProgramID string
	Value     bool
}

func (e SetCaster) Program() string     { return e.ProgramID }
func (e SetForecaster) Program() string { return e.ProgramID }
func (e SetCrosstalk) Program() string  { return e.ProgramID }

func (SetCaster) Field() string     { return FieldCaster }
func (SetForecaster) Field() string { return FieldForecaster }
func (SetCrosstalk) Field() string  { return FieldCrosstalk }

func (SetCaster) edit()     {}
func (SetForecaster) edit() {}
func (SetCrosstalk) edit()  {}

func (e SetCaster) String() string {
	return fmt.Sprintf("%s: %s=%q", e.ProgramID, FieldCaster, e.CasterID)
}

func (e SetForecaster) String() string {
	return fmt.Sprintf("%s: %s=%q", e.ProgramID, FieldForecaster, e.ForecasterID)
}

func (e SetCrosstalk) String() string {
	return fmt.Sprintf("%s: %s=%t", e.ProgramID, FieldCrosstalk, e.Value)
}

// ParseEdit builds an Edit from untyped input such as a form post or CLI flags.
// Crosstalk values accept anything strconv.ParseBool does plus "on" (HTML
// checkboxes) and "" (unchecked).
func ParseEdit(programID, field, value string) (Edit, error) {
	if programID == "" {
		return nil, errors.New("program id is required")
	}
	switch field {
	case FieldCaster:
		return SetCaster{ProgramID: programID, CasterID: value}, nil
	case FieldForecaster:
		return SetForecaster{ProgramID: programID, ForecasterID: value}, nil
	case FieldCrosstalk:
		switch value {
		case "on":
			return SetCrosstalk{ProgramID: programID, Value: true}, nil
		case "", "off":
			return SetCrosstalk{ProgramID: programID}, nil
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("crosstalk value %q: %w", value, err)
		}
		return SetCrosstalk{ProgramID: programID, Value: b}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownField, field)
	}
}
