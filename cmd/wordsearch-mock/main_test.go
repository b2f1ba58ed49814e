package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFlags(t *testing.T) {
	cmd := newRootCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--port", "4100", "--tick", "50ms"}))

	cfg, err := loadConfig(cmd, options{port: 4100, tick: 50 * time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, 4100, cfg.Mock.Port)
	assert.Equal(t, 50*time.Millisecond, cfg.Mock.TickInterval)
	assert.NotEmpty(t, cfg.Mock.Files)
}

func TestLoadConfigRejectsBadPort(t *testing.T) {
	cmd := newRootCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--port", "70000"}))

	_, err := loadConfig(cmd, options{port: 70000})
	assert.Error(t, err)
}
