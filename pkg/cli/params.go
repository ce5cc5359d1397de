package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// ParamType enumerates the kinds of command-line/interactive
// parameters patchfill validates before constructing an Inpainter.
type ParamType string

const (
	ParamTypeInt ParamType = "int"
)

// ValidationRule is a machine-friendly description of a parameter's
// constraints, mirroring the shape a UI or client could use to
// validate input before invoking the command.
type ValidationRule struct {
	Type     ParamType
	Required bool
	Min      *float64
	Max      *float64
	Hint     string
}

func floatPtr(v float64) *float64 { return &v }

// PatchSizeRule and MaxRetryRule document the constraints
// NewInpainter itself enforces (patch_size > 0) plus the practical
// ranges worth warning about before a potentially expensive run.
var (
	PatchSizeRule = ValidationRule{Type: ParamTypeInt, Required: true, Min: floatPtr(1), Max: floatPtr(32), Hint: "half-width of the square patch PatchMatch compares, in pixels"}
	MaxRetryRule  = ValidationRule{Type: ParamTypeInt, Required: false, Min: floatPtr(1), Max: floatPtr(1000), Hint: "random-search attempts before accepting an over-distance candidate"}
)

// ParseInt validates s against rule and returns its integer value.
func ParseInt(rule ValidationRule, name, s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("cli: %s must be an integer: %w", name, err)
	}
	if rule.Min != nil && float64(v) < *rule.Min {
		return 0, fmt.Errorf("cli: %s must be >= %v (%s)", name, *rule.Min, rule.Hint)
	}
	if rule.Max != nil && float64(v) > *rule.Max {
		return 0, fmt.Errorf("cli: %s must be <= %v (%s)", name, *rule.Max, rule.Hint)
	}
	return v, nil
}
