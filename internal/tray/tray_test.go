package tray

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soar/inputmapper/internal/hub"
)

func TestSendQueuesCommands(t *testing.T) {
	commands := make(chan hub.Command, 1)
	tr := New("", commands, func() {}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	tr.send(hub.CommandRescan)
	tr.send(hub.CommandReload)
	assert.Equal(t, hub.Command{Kind: hub.CommandRescan}, <-commands, "second command dropped, not blocked")
	assert.Empty(t, commands)

	tr.shuttingDown.Store(true)
	tr.send(hub.CommandFlycam)
	assert.Empty(t, commands)
}

func TestIconEmbedded(t *testing.T) {
	icon := Icon()
	assert.Greater(t, len(icon), 6)
	assert.Equal(t, []byte{0, 0, 1, 0}, icon[:4], "ICO header")
}
