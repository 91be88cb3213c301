package elastic

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

//MaxElasticity is the upper bound of the elasticity range. The pressure
//signal is normalised against it.
const MaxElasticity = 20

//Parameter names used by config files and live tuning
const (
	KeyElasticity  = "elasticity"
	KeyPower       = "power"
	KeyDamping     = "damping"
	KeyAttenuation = "attenuation"
)

//Params are the tuning gains of the surface. They are set from outside the
//simulation (config, tuning UI) and never changed by a tick.
type Params struct {
	Elasticity  float32 `mapstructure:"elasticity"`  //restoring spring gain, [0, MaxElasticity]
	Power       float32 `mapstructure:"power"`       //contact impulse gain, >= 0
	Damping     float32 `mapstructure:"damping"`     //multiplicative velocity gain per second, >= 0
	Attenuation float32 `mapstructure:"attenuation"` //contact falloff over squared distance, >= 0
}

//DefaultParams are the values the surface was tuned with
func DefaultParams() Params {
	return Params{
		Elasticity:  5,
		Power:       5,
		Damping:     5,
		Attenuation: 15,
	}
}

//Validate rejects non-finite values. Range problems are fixed by Clamp.
func (p Params) Validate() error {
	for _, kv := range p.fields() {
		f := float64(kv.value)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return errors.Wrapf(ErrInvalidParam, "%s is not finite", kv.name)
		}
	}
	return nil
}

//Clamp forces every value into its range and returns the names it changed
func (p *Params) Clamp() []string {
	var changed []string
	clamp := func(name string, v *float32, lo, hi float32) {
		c := *v
		if c < lo {
			c = lo
		}
		if c > hi {
			c = hi
		}
		if c != *v {
			*v = c
			changed = append(changed, name)
		}
	}

	inf := float32(math.Inf(1))
	clamp(KeyElasticity, &p.Elasticity, 0, MaxElasticity)
	clamp(KeyPower, &p.Power, 0, inf)
	clamp(KeyDamping, &p.Damping, 0, inf)
	clamp(KeyAttenuation, &p.Attenuation, 0, inf)
	return changed
}

//Set assigns one parameter by name, coercing value to float32 and clamping
func (p *Params) Set(name string, value interface{}) error {
	f, err := cast.ToFloat32E(value)
	if err != nil {
		return errors.Wrapf(ErrInvalidParam, "%s: %v", name, err)
	}
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return errors.Wrapf(ErrInvalidParam, "%s is not finite", name)
	}

	switch strings.ToLower(name) {
	case KeyElasticity:
		p.Elasticity = f
	case KeyPower:
		p.Power = f
	case KeyDamping:
		p.Damping = f
	case KeyAttenuation:
		p.Attenuation = f
	default:
		return errors.Wrapf(ErrInvalidParam, "unknown parameter %q", name)
	}
	p.Clamp()
	return nil
}

//Get reads one parameter by name
func (p Params) Get(name string) (float32, bool) {
	for _, kv := range p.fields() {
		if kv.name == strings.ToLower(name) {
			return kv.value, true
		}
	}
	return 0, false
}

type namedValue struct {
	name  string
	value float32
}

func (p Params) fields() [4]namedValue {
	return [4]namedValue{
		{KeyElasticity, p.Elasticity},
		{KeyPower, p.Power},
		{KeyDamping, p.Damping},
		{KeyAttenuation, p.Attenuation},
	}
}
