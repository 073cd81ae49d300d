// Package classifier defines the role classifier used to decide which
// generated sentences were spoken by the patient's relative.
package classifier

import (
	"context"
	"errors"
	"fmt"
)

// KindRole is the classification kind the role filter asks for.
const KindRole = "role"

// ErrMalformedLabel is returned for labels that are not a pair of 0/1 values.
var ErrMalformedLabel = errors.New("malformed role label")

// RoleLabel is the classifier output: index 0 is the doctor indicator,
// index 1 the patient/relative indicator.
type RoleLabel [2]int

var (
	Doctor   = RoleLabel{1, 0}
	Relative = RoleLabel{0, 1}
)

// ParseRoleLabel converts a decoded JSON array into a RoleLabel.
func ParseRoleLabel(v []int) (RoleLabel, error) {
	if len(v) != 2 {
		return RoleLabel{}, fmt.Errorf("%w: expected 2 components, got %d", ErrMalformedLabel, len(v))
	}
	l := RoleLabel{v[0], v[1]}
	if err := l.Validate(); err != nil {
		return RoleLabel{}, err
	}
	return l, nil
}

// Validate reports whether both components are binary.
func (l RoleLabel) Validate() error {
	for i, c := range l {
		if c != 0 && c != 1 {
			return fmt.Errorf("%w: component %d is %d", ErrMalformedLabel, i, c)
		}
	}
	return nil
}

// IsTarget reports whether the label marks the patient/relative role.
func (l RoleLabel) IsTarget() bool { return l[1] == 1 }

func (l RoleLabel) String() string {
	switch l {
	case Doctor:
		return "doctor"
	case Relative:
		return "relative"
	case RoleLabel{1, 1}:
		return "both"
	case RoleLabel{0, 0}:
		return "none"
	default:
		return fmt.Sprintf("invalid%v", [2]int(l))
	}
}

// Classifier labels a single sentence.
type Classifier interface {
	// Classify returns the label for sentence. kind selects the model
	// (the pipeline only uses KindRole).
	Classify(ctx context.Context, kind, sentence string) (RoleLabel, error)
}

// Func adapts a function to the Classifier interface.
type Func func(ctx context.Context, kind, sentence string) (RoleLabel, error)

func (f Func) Classify(ctx context.Context, kind, sentence string) (RoleLabel, error) {
	return f(ctx, kind, sentence)
}
