package system

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	for _, debug := range []bool{true, false} {
		logger, err := NewLogger(debug)
		require.NoError(t, err)
		require.NotNil(t, logger)
	}
}

func TestGetReqLoggerFallback(t *testing.T) {
	fallback := NewTestLogger()

	assert.Same(t, fallback, GetReqLogger(nil, fallback))

	c := &gin.Context{}
	assert.Same(t, fallback, GetReqLogger(c, fallback))

	scoped := NewTestLogger().With("requestID", int64(7))
	c.Set(ReqLoggerKey, scoped)
	assert.Same(t, scoped, GetReqLogger(c, fallback))
}

func TestRequestFields(t *testing.T) {
	assert.Equal(t, []interface{}{"requestID", int64(4)}, RequestFields(4, ""))
	assert.Equal(t, []interface{}{"requestID", int64(4), "state", "pending"}, RequestFields(4, "pending"))
}
