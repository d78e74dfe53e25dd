package xserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStride(t *testing.T) {
	assert.Equal(t, 400, stride(100, 32, 32))
	assert.Equal(t, 300, stride(100, 24, 32))
	assert.Equal(t, 304, stride(101, 24, 32))
	assert.Equal(t, 202, stride(101, 16, 16))
	assert.Equal(t, 204, stride(101, 16, 32))
	assert.Equal(t, 13, stride(101, 1, 8))
	assert.Equal(t, 4, stride(1, 32, 0))
}

func TestEventKind(t *testing.T) {
	assert.Equal(t, "ClientMessage", ClientMessage.String())
	assert.Equal(t, "EventKind(99)", EventKind(99).String())
	assert.True(t, KeyPress.Valid())
	assert.True(t, GenericEvent.Valid())
	assert.False(t, LastEvent.Valid())
	assert.False(t, EventKind(-1).Valid())
}
