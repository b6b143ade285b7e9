package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvStringFallsBack(t *testing.T) {
	assert.Equal(t, "fallback", getEnvString("FRONTDESK_TEST_UNSET", "fallback"))

	t.Setenv("FRONTDESK_TEST_SET", "from-env")
	assert.Equal(t, "from-env", getEnvString("FRONTDESK_TEST_SET", "fallback"))
}

func TestGetEnvBoolParsesVariants(t *testing.T) {
	cases := map[string]bool{
		"true": true, "1": true, "yes": true, "TRUE": true,
		"false": false, "0": false, "no": false, "No": false,
	}
	for value, want := range cases {
		t.Setenv("FRONTDESK_TEST_BOOL", value)
		assert.Equal(t, want, getEnvBool("FRONTDESK_TEST_BOOL", !want), "value %q", value)
	}

	// Unparseable values keep the default.
	t.Setenv("FRONTDESK_TEST_BOOL", "maybe")
	assert.True(t, getEnvBool("FRONTDESK_TEST_BOOL", true))
	assert.False(t, getEnvBool("FRONTDESK_TEST_BOOL", false))
}
