package orm

import (
	"github.com/fymoney/weave"
	"github.com/fymoney/weave/errors"
)

// counter is a minimal model used to exercise buckets.
type counter struct {
	Count int64
}

var _ CloneableData = (*counter)(nil)

func (c *counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrState, "negative count")
	}
	return nil
}

func (c *counter) Copy() CloneableData {
	return &counter{Count: c.Count}
}

func (c *counter) Marshal() ([]byte, error) {
	w := weave.NewWireWriter()
	w.Int64(1, c.Count)
	return w.Result()
}

func (c *counter) Unmarshal(raw []byte) error {
	*c = counter{}
	r := weave.NewWireReader(raw)
	for {
		ok, err := r.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if r.Field() == 1 {
			if c.Count, err = r.Int64(); err != nil {
				return err
			}
		}
	}
}

func newCounterObj(key string, count int64) *SimpleObj {
	return NewSimpleObj([]byte(key), &counter{Count: count})
}
