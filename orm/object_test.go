package orm

import (
	"testing"

	"github.com/fymoney/weave/weavetest/assert"
)

func TestSimpleObj(t *testing.T) {
	obj := newCounterObj("foo", 7)
	assert.Equal(t, []byte("foo"), obj.Key())
	assert.Nil(t, obj.Validate())

	// A clone keeps the key but carries an empty value to load into.
	c := obj.Clone()
	assert.Equal(t, []byte("foo"), c.Key())
	assert.Equal(t, int64(0), c.Value().(*counter).Count)

	obj.Key()[0] = 'b'
	assert.Equal(t, []byte("foo"), c.Key())

	nokey := newCounterObj("", 1)
	if err := nokey.Validate(); err == nil {
		t.Fatal("object without a key must not validate")
	}
	nokey.SetKey([]byte{1, 3})
	assert.Nil(t, nokey.Validate())
}
