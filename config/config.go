package config

import (
	"strings"

	"diesel.com/elastic/elastic"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

//EnvPrefix for environment overrides, e.g. ELASTIC_DAMPING=4
const EnvPrefix = "elastic"

var log = logrus.StandardLogger().WithField("component", "config")

//SetLogger replaces the package logger
func SetLogger(l *logrus.Entry) {
	if l != nil {
		log = l
	}
}

//Load reads the tuning parameters. Defaults come first, then the optional
//file at path (toml, yaml or json by extension, read through fs), then the
//environment. Out of range values are clamped, non-finite values rejected.
func Load(fs afero.Fs, path string) (elastic.Params, error) {
	v, err := newViper(fs, path)
	if err != nil {
		return elastic.Params{}, err
	}
	return decode(v)
}

func newViper(fs afero.Fs, path string) (*viper.Viper, error) {
	v := viper.New()
	if fs != nil {
		v.SetFs(fs)
	}

	defaults := elastic.DefaultParams()
	v.SetDefault(elastic.KeyElasticity, defaults.Elasticity)
	v.SetDefault(elastic.KeyPower, defaults.Power)
	v.SetDefault(elastic.KeyDamping, defaults.Damping)
	v.SetDefault(elastic.KeyAttenuation, defaults.Attenuation)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read tuning file %s", path)
		}
	}
	return v, nil
}

func decode(v *viper.Viper) (elastic.Params, error) {
	var p elastic.Params
	if err := v.Unmarshal(&p); err != nil {
		return elastic.Params{}, errors.Wrap(elastic.ErrInvalidParam, err.Error())
	}
	if err := p.Validate(); err != nil {
		return elastic.Params{}, err
	}
	if changed := p.Clamp(); len(changed) > 0 {
		log.WithField("params", changed).Warn("tuning values clamped into range")
	}

	log.WithFields(logrus.Fields{
		"source":      v.ConfigFileUsed(),
		"elasticity":  p.Elasticity,
		"power":       p.Power,
		"damping":     p.Damping,
		"attenuation": p.Attenuation,
	}).Info("tuning loaded")
	return p, nil
}
