package config

import (
	"sync"

	"diesel.com/elastic/elastic"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

//ParamSetter is anything that takes new tuning, usually an *elastic.Body
type ParamSetter interface {
	SetParams(p elastic.Params) error
}

//Tuner stages parameter changes from a tuning UI or a watched config file.
//Staged values only reach the body through Apply, called on the frame thread.
type Tuner struct {
	mu     sync.Mutex
	v      *viper.Viper
	params elastic.Params
	dirty  bool
}

//Open loads the parameters like Load and keeps the source for watching
func Open(fs afero.Fs, path string) (*Tuner, error) {
	v, err := newViper(fs, path)
	if err != nil {
		return nil, err
	}
	p, err := decode(v)
	if err != nil {
		return nil, err
	}
	return &Tuner{v: v, params: p, dirty: true}, nil
}

//Params returns the staged parameters
func (t *Tuner) Params() elastic.Params {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.params
}

//Set stages one parameter by name
func (t *Tuner) Set(name string, value interface{}) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.params
	if err := p.Set(name, value); err != nil {
		return err
	}
	t.params = p
	t.dirty = true
	return nil
}

//Nudge adds delta to one parameter
func (t *Tuner) Nudge(name string, delta float32) error {
	t.mu.Lock()
	cur, ok := t.params.Get(name)
	t.mu.Unlock()
	if !ok {
		return errors.Wrapf(elastic.ErrInvalidParam, "unknown parameter %q", name)
	}
	return t.Set(name, cur+delta)
}

//Watch reloads the config file whenever it changes on disk
func (t *Tuner) Watch() {
	if t.v.ConfigFileUsed() == "" {
		log.Debug("no tuning file to watch")
		return
	}
	t.v.OnConfigChange(t.reload)
	t.v.WatchConfig()
}

//reload runs after viper re-read the file
func (t *Tuner) reload(e fsnotify.Event) {
	p, err := decode(t.v)
	if err != nil {
		log.WithError(err).WithField("file", e.Name).Error("tuning file rejected")
		return
	}
	t.mu.Lock()
	t.params = p
	t.dirty = true
	t.mu.Unlock()
	log.WithFields(logrus.Fields{"file": e.Name, "op": e.Op.String()}).Debug("tuning reloaded")
}

//Apply pushes staged parameters to dst. It reports whether anything changed.
func (t *Tuner) Apply(dst ParamSetter) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.dirty {
		return false, nil
	}
	if err := dst.SetParams(t.params); err != nil {
		return false, errors.Wrap(err, "apply tuning")
	}
	t.dirty = false
	return true, nil
}
