package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitHosts(t *testing.T) {
	assert.Equal(t, []string{"localhost", "127.0.0.1"}, splitHosts("localhost, 127.0.0.1,"))
	assert.Nil(t, splitHosts(" , "))
}
