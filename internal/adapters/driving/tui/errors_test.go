package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrMissingEngineService_Message(t *testing.T) {
	assert.Contains(t, ErrMissingEngineService.Error(), "engine service")
}
