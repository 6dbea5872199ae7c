package method

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// AssertCondition fails the running test when condition is false.
func (m *Method) AssertCondition(t require.TestingT, condition bool, msgAndArgs ...interface{}) {
	log.Infof("Asserting condition: %t", condition)
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	require.True(t, condition, msgAndArgs...)
}

// Assert is AssertCondition for callers outside a test; it returns
// ErrAssertion instead of stopping the test.
func (m *Method) Assert(condition bool, message string) error {
	log.Infof("Asserting condition: %t", condition)
	if condition {
		return nil
	}
	if message == "" {
		return ErrAssertion
	}
	return fmt.Errorf("%w: %s", ErrAssertion, message)
}
