package chatmux

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/go-go-golems/chatmux/pkg/session"
)

// Default worker pool clamp bounds, applied to the detected hardware
// parallelism before sizing the pool.
const (
	DefaultMinWorkers = 8
	DefaultMaxWorkers = 1000
)

// Options configures a Manager. The zero value is usable.
type Options struct {
	// MinWorkers and MaxWorkers clamp the hardware-derived worker pool
	// capacity.
	MinWorkers int `yaml:"min_workers"`
	MaxWorkers int `yaml:"max_workers"`

	// Resolver lazily loads entities referenced by indexed messages.
	// Optional; nil disables dependency resolution.
	Resolver session.Resolver `yaml:"-"`
}

func (o *Options) setDefaults() {
	if o.MinWorkers <= 0 {
		o.MinWorkers = DefaultMinWorkers
	}
	if o.MaxWorkers <= 0 {
		o.MaxWorkers = DefaultMaxWorkers
	}
	if o.MaxWorkers < o.MinWorkers {
		o.MaxWorkers = o.MinWorkers
	}
}

// LoadOptions reads options from a YAML file.
func LoadOptions(path string) (Options, error) {
	var opts Options
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, errors.Wrap(err, "read options file")
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, errors.Wrap(err, "parse options file")
	}
	return opts, nil
}
