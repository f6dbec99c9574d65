//go:build !tinygo

package main

import (
	"bytes"
	"errors"
	"testing"

	"synthcode-go/errcode"
	"synthcode-go/services/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHostShell(t *testing.T) (*shell, *bytes.Buffer) {
	t.Helper()
	b, err := config.Load("host")
	require.NoError(t, err)
	var out bytes.Buffer
	sh, err := newShell(&out, b)
	require.NoError(t, err)
	return sh, &out
}

func TestShell_Session(t *testing.T) {
	sh, out := newHostShell(t)

	require.NoError(t, sh.exec("open"))
	assert.Contains(t, out.String(), "synth0 open")

	out.Reset()
	require.NoError(t, sh.exec("read 0x10"))
	assert.Equal(t, "reg 0x10 = 0x51\n", out.String())

	out.Reset()
	require.NoError(t, sh.exec(`freq "5 GHz"`))
	assert.Contains(t, out.String(), "retuned")

	require.NoError(t, sh.exec("amp 960mV"))
	out.Reset()
	require.NoError(t, sh.exec("read 0x19"))
	assert.Equal(t, "reg 0x19 = 0xF0\n", out.String())

	require.NoError(t, sh.exec("write 0x0A 0xA5"))
	out.Reset()
	require.NoError(t, sh.exec("read 10"))
	assert.Equal(t, "reg 0x0A = 0xA5\n", out.String())

	require.NoError(t, sh.exec("close"))
	err := sh.exec("state")
	assert.Equal(t, errcode.Resource, errcode.Of(err))

	assert.True(t, errors.Is(sh.exec("quit"), errQuit))
}

func TestShell_PlanWithoutDevice(t *testing.T) {
	sh, out := newHostShell(t)
	require.NoError(t, sh.exec("plan 10 GHz"))
	assert.Contains(t, out.String(), "n_int=81")

	err := sh.exec("plan 20 GHz")
	assert.Equal(t, errcode.Range, errcode.Of(err))
}

func TestShell_BadInput(t *testing.T) {
	sh, _ := newHostShell(t)
	require.NoError(t, sh.exec("   "))
	assert.Equal(t, errcode.InvalidParams, errcode.Of(sh.exec("frobnicate")))
	assert.Equal(t, errcode.InvalidParams, errcode.Of(sh.exec(`open "unterminated`)))

	require.NoError(t, sh.exec("open"))
	assert.Equal(t, errcode.Resource, errcode.Of(sh.exec("open")))
	assert.Equal(t, errcode.InvalidParams, errcode.Of(sh.exec("read 0x100")))
	assert.Equal(t, errcode.InvalidParams, errcode.Of(sh.exec("amp 2V")))
	assert.Equal(t, errcode.Range, errcode.Of(sh.exec("freq 100 MHz")))
}

func TestReport_ResourceHint(t *testing.T) {
	sh, out := newHostShell(t)
	require.NoError(t, sh.exec("open"))

	report(sh, sh.exec("open"))
	assert.Contains(t, out.String(), "error [resource]")
	assert.Contains(t, out.String(), "'close' releases ours")

	out.Reset()
	report(sh, sh.exec("freq 100 MHz"))
	assert.Contains(t, out.String(), "error [out_of_range]")
	assert.NotContains(t, out.String(), "'close'")
}
