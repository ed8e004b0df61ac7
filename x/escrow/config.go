package escrow

import (
	"github.com/fymoney/weave"
	"github.com/fymoney/weave/errors"
	"github.com/fymoney/weave/gconf"
)

// ConfigPkg is the configuration package name of this extension.
const ConfigPkg = "escrow"

// Configuration of the escrow extension, stored with gconf.
type Configuration struct {
	// MaxDurationSeconds caps how long after creation an escrow may
	// expire. It may not exceed MaxEscrowDuration.
	MaxDurationSeconds int64 `json:"max_duration_seconds"`
	// CloseCustody removes the custody account once the escrow reached a
	// terminal state and the account is empty.
	CloseCustody bool `json:"close_custody"`
}

var _ gconf.Configuration = (*Configuration)(nil)

// DefaultConfiguration is used when no configuration was saved.
func DefaultConfiguration() Configuration {
	return Configuration{
		MaxDurationSeconds: MaxEscrowDuration,
		CloseCustody:       true,
	}
}

// NewConfiguration returns a default configuration. It is the constructor
// registered with the gconf initializer.
func NewConfiguration() gconf.Configuration {
	c := DefaultConfiguration()
	return &c
}

func (c *Configuration) Validate() error {
	if c.MaxDurationSeconds <= 0 {
		return errors.Wrap(errors.ErrInput, "max duration must be positive")
	}
	if c.MaxDurationSeconds > MaxEscrowDuration {
		return errors.Wrapf(ErrExpirationTooLong, "max duration %d seconds", c.MaxDurationSeconds)
	}
	return nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	w := weave.NewWireWriter()
	w.Int64(1, c.MaxDurationSeconds)
	if c.CloseCustody {
		w.Uint64(2, 1)
	}
	return w.Result()
}

func (c *Configuration) Unmarshal(raw []byte) error {
	*c = Configuration{}
	r := weave.NewWireReader(raw)
	for {
		ok, err := r.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		switch r.Field() {
		case 1:
			if c.MaxDurationSeconds, err = r.Int64(); err != nil {
				return err
			}
		case 2:
			v, err := r.Uint64()
			if err != nil {
				return err
			}
			c.CloseCustody = v != 0
		}
	}
}

// loadConf returns the stored configuration or the default one.
func loadConf(db gconf.ReadStore) (Configuration, error) {
	var c Configuration
	err := gconf.Load(db, ConfigPkg, &c)
	switch {
	case err == nil:
		return c, nil
	case errors.ErrNotFound.Is(err):
		return DefaultConfiguration(), nil
	default:
		return Configuration{}, errors.Wrap(err, "load configuration")
	}
}
