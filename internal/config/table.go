// Package config holds the named settings that drive device mapping,
// conditioning and dispatch. Values live in a viper instance: compiled-in
// defaults, an optional config file, INPUTMAPPER_* environment overrides and
// runtime writes, in increasing priority.
package config

import (
	"encoding/base64"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/soar/inputmapper/internal/channel"
)

const envPrefix = "INPUTMAPPER"

// Table is the configuration store. It is not safe for concurrent writes;
// the control loop owns it.
type Table struct {
	v    *viper.Viper
	path string
}

// New returns a table holding only the compiled-in defaults.
func New() *Table {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return &Table{v: v}
}

// Load returns a table backed by the file at path. A missing file is not an
// error; Save creates it.
func Load(path string) (*Table, error) {
	t := New()
	if path == "" {
		return t, nil
	}
	t.path = path
	t.v.SetConfigFile(path)
	if err := t.v.ReadInConfig(); err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return t, nil
		}
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	return t, nil
}

// BindFlags lets command line flags override table values of the same name.
func (t *Table) BindFlags(fs *pflag.FlagSet) error {
	return errors.Wrap(t.v.BindPFlags(fs), "bind flags")
}

// Path returns the backing file, if any.
func (t *Table) Path() string { return t.path }

func (t *Table) GetFloat(name string) float64 { return t.v.GetFloat64(name) }
func (t *Table) GetBool(name string) bool     { return t.v.GetBool(name) }
func (t *Table) GetInt(name string) int       { return t.v.GetInt(name) }
func (t *Table) GetString(name string) string { return t.v.GetString(name) }

func (t *Table) SetFloat(name string, value float64) { t.v.Set(name, value) }
func (t *Table) SetBool(name string, value bool)     { t.v.Set(name, value) }
func (t *Table) SetInt(name string, value int)       { t.v.Set(name, value) }

// GetBytes returns an opaque blob stored base64 encoded, or nil.
func (t *Table) GetBytes(name string) []byte {
	s := t.v.GetString(name)
	if s == "" {
		return nil
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}

// SetBytes stores an opaque blob.
func (t *Table) SetBytes(name string, value []byte) {
	t.v.Set(name, base64.StdEncoding.EncodeToString(value))
}

// Refresh re-reads the backing file.
func (t *Table) Refresh() error {
	if t.path == "" {
		return nil
	}
	if err := t.v.ReadInConfig(); err != nil && !os.IsNotExist(errors.Cause(err)) {
		return errors.Wrapf(err, "refresh config %s", t.path)
	}
	return nil
}

// Save writes every current value to the backing file.
func (t *Table) Save() error {
	if t.path == "" {
		return nil
	}
	return errors.Wrapf(t.v.WriteConfigAs(t.path), "write config %s", t.path)
}

// ProfileApplied reports whether the default profile of class was written.
func (t *Table) ProfileApplied(class DeviceClass) bool {
	return t.v.GetBool(ProfileAppliedKey(class))
}

// ApplyProfile writes every value of p and marks its class as applied.
func (t *Table) ApplyProfile(p Profile) {
	t.v.Set(KeyRelative, p.Relative)
	for a, idx := range p.Axes {
		t.v.Set(AxisKey(a), idx)
	}
	for b, idx := range p.Buttons {
		t.v.Set(ButtonKey(b), idx)
	}
	for k, s := range p.Scale {
		t.v.Set(ScaleKey(k.Context, k.Axis), s)
	}
	for k, d := range p.Deadzone {
		t.v.Set(DeadzoneKey(k.Context, k.Axis), d)
	}
	for c, f := range p.Feathering {
		t.v.Set(FeatheringKey(c), f)
	}
	t.v.Set(ProfileAppliedKey(p.Class), true)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyEnabled, false)
	v.SetDefault(KeyDeviceIdentity, "")
	v.SetDefault(KeyAvatarEnabled, true)
	v.SetDefault(KeyBuildEnabled, true)
	v.SetDefault(KeyFlycamEnabled, true)
	v.SetDefault(KeyRunThreshold, 0.25)
	v.SetDefault(KeyAutoLevel, true)
	v.SetDefault(KeyDirectZoom, false)
	v.SetDefault(KeyRollRate, 1.0)
	v.SetDefault(KeyZoomRate, 0.5)

	p := ProfileFor(ClassGeneric)
	v.SetDefault(KeyRelative, p.Relative)
	for a, idx := range p.Axes {
		v.SetDefault(AxisKey(a), idx)
	}
	for b, idx := range p.Buttons {
		v.SetDefault(ButtonKey(b), idx)
	}
	for k, s := range p.Scale {
		v.SetDefault(ScaleKey(k.Context, k.Axis), s)
	}
	for k, d := range p.Deadzone {
		v.SetDefault(DeadzoneKey(k.Context, k.Axis), d)
	}
	for c, f := range p.Feathering {
		v.SetDefault(FeatheringKey(c), f)
	}
	for _, c := range []DeviceClass{ClassNDOF, ClassXbox, ClassPlayStation, ClassSwitchPro, ClassGeneric} {
		v.SetDefault(ProfileAppliedKey(c), false)
	}
}

// Params is a snapshot of the table in the shape the control loop consumes.
type Params struct {
	Axes       [channel.NumAxes]channel.Binding
	Buttons    [channel.NumButtons]channel.Binding
	Scale      map[channel.Key]float64
	Deadzone   map[channel.Key]float64
	Feathering map[channel.Context]float64

	Enabled       bool
	Relative      bool
	AvatarEnabled bool
	BuildEnabled  bool
	FlycamEnabled bool
	AutoLevel     bool
	DirectZoom    bool
	RunThreshold  float64
	RollRate      float64
	ZoomRate      float64
}

// Params reads a fresh snapshot.
func (t *Table) Params() Params {
	p := Params{
		Scale:         make(map[channel.Key]float64),
		Deadzone:      make(map[channel.Key]float64),
		Feathering:    make(map[channel.Context]float64),
		Enabled:       t.GetBool(KeyEnabled),
		Relative:      t.GetBool(KeyRelative),
		AvatarEnabled: t.GetBool(KeyAvatarEnabled),
		BuildEnabled:  t.GetBool(KeyBuildEnabled),
		FlycamEnabled: t.GetBool(KeyFlycamEnabled),
		AutoLevel:     t.GetBool(KeyAutoLevel),
		DirectZoom:    t.GetBool(KeyDirectZoom),
		RunThreshold:  t.GetFloat(KeyRunThreshold),
		RollRate:      t.GetFloat(KeyRollRate),
		ZoomRate:      t.GetFloat(KeyZoomRate),
	}
	for _, a := range channel.Axes() {
		p.Axes[a] = channel.Bind(t.GetInt(AxisKey(a)))
		for _, c := range channel.Contexts() {
			k := channel.Key{Context: c, Axis: a}
			p.Scale[k] = t.GetFloat(ScaleKey(c, a))
			p.Deadzone[k] = t.GetFloat(DeadzoneKey(c, a))
		}
	}
	for _, b := range channel.Buttons() {
		p.Buttons[b] = channel.Bind(t.GetInt(ButtonKey(b)))
	}
	for _, c := range channel.Contexts() {
		p.Feathering[c] = t.GetFloat(FeatheringKey(c))
	}
	return p
}

// ScaleFor returns the sensitivity of a in c; None and unknown keys are 0.
func (p Params) ScaleFor(c channel.Context, a channel.Axis) float64 {
	return p.Scale[channel.Key{Context: c, Axis: a}]
}

// DeadzoneFor returns the configured deadzone of a in c, unclamped.
func (p Params) DeadzoneFor(c channel.Context, a channel.Axis) float64 {
	return p.Deadzone[channel.Key{Context: c, Axis: a}]
}

// FeatheringFor returns the smoothing rate of c.
func (p Params) FeatheringFor(c channel.Context) float64 {
	return p.Feathering[c]
}
