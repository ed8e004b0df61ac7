package weavetest

import "github.com/fymoney/weave"

// Tx is a transaction carrying a single message. If Err is set, GetMsg
// fails with it.
type Tx struct {
	Msg weave.Msg
	Err error
}

var _ weave.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (weave.Msg, error) {
	return tx.Msg, tx.Err
}

// Marshal and Unmarshal are never needed by handlers, a test calling them
// is wrong.
func (tx *Tx) Marshal() ([]byte, error) { panic("weavetest.Tx cannot be serialized") }
func (tx *Tx) Unmarshal([]byte) error   { panic("weavetest.Tx cannot be serialized") }

// Msg is a message routed under RoutePath. Its serialized form is kept as
// is.
type Msg struct {
	RoutePath  string
	Serialized []byte
	// Err is returned by Marshal and Unmarshal.
	Err error
	// ValidErr is returned by Validate.
	ValidErr error
}

var _ weave.Msg = (*Msg)(nil)

func (m *Msg) Path() string { return m.RoutePath }

func (m *Msg) Marshal() ([]byte, error) { return m.Serialized, m.Err }

func (m *Msg) Unmarshal(b []byte) error {
	m.Serialized = b
	return m.Err
}

func (m *Msg) Validate() error { return m.ValidErr }
