package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soar/inputmapper/internal/channel"
	"github.com/soar/inputmapper/internal/config"
)

func TestDefaults(t *testing.T) {
	tbl := config.New()

	assert.False(t, tbl.GetBool(config.KeyEnabled))
	assert.True(t, tbl.GetBool(config.KeyAvatarEnabled))
	assert.InDelta(t, 0.25, tbl.GetFloat(config.KeyRunThreshold), 1e-9)
	assert.Equal(t, 1, tbl.GetInt(config.AxisKey(channel.TranslateZ)))
	assert.Equal(t, -1, tbl.GetInt(config.AxisKey(channel.Zoom)))
	assert.InDelta(t, 16, tbl.GetFloat(config.FeatheringKey(channel.Flycam)), 1e-9)

	for _, c := range []config.DeviceClass{config.ClassNDOF, config.ClassXbox, config.ClassGeneric} {
		assert.False(t, tbl.ProfileApplied(c), c)
	}
}

func TestParamsUnmappedIsExplicit(t *testing.T) {
	tbl := config.New()
	p := tbl.Params()

	assert.False(t, p.Axes[channel.Zoom].Mapped())
	assert.Equal(t, -1, p.Axes[channel.Zoom].Raw())

	idx, ok := p.Axes[channel.TranslateZ].Index()
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	assert.False(t, p.Buttons[channel.ZoomIn].Mapped())
	assert.True(t, p.Buttons[channel.FlycamToggle].Mapped())
}

func TestParamsPerContextKeys(t *testing.T) {
	tbl := config.New()
	tbl.SetFloat(config.ScaleKey(channel.Flycam, channel.RotateZ), -3.5)
	tbl.SetFloat(config.DeadzoneKey(channel.ObjectBuild, channel.TranslateX), 0.4)

	p := tbl.Params()
	assert.InDelta(t, -3.5, p.ScaleFor(channel.Flycam, channel.RotateZ), 1e-9)
	assert.InDelta(t, 1.5, p.ScaleFor(channel.Avatar, channel.RotateZ), 1e-9)
	assert.InDelta(t, 0.4, p.DeadzoneFor(channel.ObjectBuild, channel.TranslateX), 1e-9)
	assert.InDelta(t, 0.15, p.DeadzoneFor(channel.Avatar, channel.TranslateX), 1e-9)
	assert.Zero(t, p.ScaleFor(channel.None, channel.TranslateX))
}

func TestApplyProfile(t *testing.T) {
	tbl := config.New()
	tbl.ApplyProfile(config.ProfileFor(config.ClassNDOF))

	assert.True(t, tbl.ProfileApplied(config.ClassNDOF))
	assert.False(t, tbl.ProfileApplied(config.ClassXbox))

	p := tbl.Params()
	idx, ok := p.Axes[channel.RotateY].Index()
	require.True(t, ok)
	assert.Equal(t, 5, idx)
	assert.True(t, p.Axes[channel.TranslateY].Mapped())
	assert.InDelta(t, 0.1, p.DeadzoneFor(channel.Flycam, channel.RotateY), 1e-9)
	assert.InDelta(t, -8, p.ScaleFor(channel.Flycam, channel.TranslateZ), 1e-9)
}

func TestBytesRoundTrip(t *testing.T) {
	tbl := config.New()
	assert.Nil(t, tbl.GetBytes(config.KeyDeviceIdentity))

	id := []byte{0x46, 0x6d, 0x26, 0xc6, 0x00, 0xff}
	tbl.SetBytes(config.KeyDeviceIdentity, id)
	assert.Equal(t, id, tbl.GetBytes(config.KeyDeviceIdentity))
}

func TestLoadMissingFileThenSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inputmapper.yaml")

	tbl, err := config.Load(path)
	require.NoError(t, err)
	tbl.SetBool(config.KeyEnabled, true)
	tbl.SetFloat(config.KeyRunThreshold, 0.6)
	require.NoError(t, tbl.Save())

	_, err = os.Stat(path)
	require.NoError(t, err)

	again, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, again.GetBool(config.KeyEnabled))
	assert.InDelta(t, 0.6, again.GetFloat(config.KeyRunThreshold), 1e-9)
}

func TestRefreshPicksUpFileEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inputmapper.yaml")
	require.NoError(t, os.WriteFile(path, []byte("avatar:\n  run_threshold: 0.3\n"), 0o644))

	tbl, err := config.Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, tbl.GetFloat(config.KeyRunThreshold), 1e-9)

	require.NoError(t, os.WriteFile(path, []byte("avatar:\n  run_threshold: 0.7\n"), 0o644))
	require.NoError(t, tbl.Refresh())
	assert.InDelta(t, 0.7, tbl.GetFloat(config.KeyRunThreshold), 1e-9)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("avatar: [\n"), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}
