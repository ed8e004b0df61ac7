package app

import (
	"github.com/fymoney/weave"
	"github.com/fymoney/weave/errors"
	"github.com/gogo/protobuf/proto"
)

// ResultSet holds the keys or the values of a query response. Each result
// is stored as repeated field 1, empty results included, so that keys and
// values of the same query always have the same length.
type ResultSet struct {
	Results [][]byte
}

var _ weave.Persistent = (*ResultSet)(nil)

// Marshal serializes the set.
func (r *ResultSet) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	for _, res := range r.Results {
		if err := buf.EncodeVarint(1<<3 | weave.WireBytes); err != nil {
			return nil, errors.Wrap(errors.ErrInput, err.Error())
		}
		if err := buf.EncodeRawBytes(res); err != nil {
			return nil, errors.Wrap(errors.ErrInput, err.Error())
		}
	}
	return buf.Bytes(), nil
}

// Unmarshal loads the set from its serialized form.
func (r *ResultSet) Unmarshal(raw []byte) error {
	r.Results = nil
	rd := weave.NewWireReader(raw)
	for {
		ok, err := rd.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if rd.Field() != 1 {
			continue
		}
		b, err := rd.Bytes()
		if err != nil {
			return err
		}
		r.Results = append(r.Results, b)
	}
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []weave.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []weave.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]weave.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrInput, "mismatched result set size: %d keys, %d values", len(kref), len(vref))
	}
	mods := make([]weave.Model, len(kref))
	for i := range mods {
		mods[i] = weave.Model{
			Key:   kref[i],
			Value: vref[i],
		}
	}
	return mods, nil
}

// UnmarshalOneResult will parse a resultset, and
// it if is not empty, unmarshal the first result into o
func UnmarshalOneResult(bz []byte, o weave.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return err
	}
	if len(res.Results) == 0 {
		return nil
	}
	return o.Unmarshal(res.Results[0])
}
