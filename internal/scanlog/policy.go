package scanlog

import "fmt"

// NumericPolicy decides what happens to a numeric leaf whose text is not a
// number.
type NumericPolicy int

const (
	// PolicyDefaultZero reads an unparsable number as 0. This matches the
	// scanning pipeline that writes these logs and is the default.
	PolicyDefaultZero NumericPolicy = iota
	// PolicyStrict rejects the document with ErrMalformedDocument.
	PolicyStrict
)

// Policy names as used in configuration files.
const (
	PolicyNameDefaultZero = "default_zero"
	PolicyNameStrict      = "strict"
)

func (p NumericPolicy) String() string {
	switch p {
	case PolicyDefaultZero:
		return PolicyNameDefaultZero
	case PolicyStrict:
		return PolicyNameStrict
	default:
		return fmt.Sprintf("NumericPolicy(%d)", int(p))
	}
}

// ParseNumericPolicy maps a configuration name onto a policy.
func ParseNumericPolicy(name string) (NumericPolicy, error) {
	switch name {
	case PolicyNameDefaultZero, "":
		return PolicyDefaultZero, nil
	case PolicyNameStrict:
		return PolicyStrict, nil
	default:
		return 0, fmt.Errorf("unknown numeric policy %q (want %s or %s)",
			name, PolicyNameDefaultZero, PolicyNameStrict)
	}
}
