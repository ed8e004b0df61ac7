package weave

import (
	"testing"

	"github.com/fymoney/weave/errors"
)

type wireSample struct {
	Name   string
	Amount uint64
	Time   int64
}

func (s *wireSample) Marshal() ([]byte, error) {
	w := NewWireWriter()
	w.String(1, s.Name)
	w.Uint64(2, s.Amount)
	w.Int64(3, s.Time)
	return w.Result()
}

func (s *wireSample) Unmarshal(raw []byte) error {
	r := NewWireReader(raw)
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
			b, err := r.Bytes()
			if err != nil {
				return err
			}
			s.Name = string(b)
		case 2:
			if s.Amount, err = r.Uint64(); err != nil {
				return err
			}
		case 3:
			if s.Time, err = r.Int64(); err != nil {
				return err
			}
		}
	}
}

func TestWireRoundTrip(t *testing.T) {
	cases := map[string]wireSample{
		"all fields": {Name: "escrow", Amount: 1000, Time: 1554370540},
		"zero value": {},
		"negative":   {Name: "x", Time: -42},
	}
	for testName, want := range cases {
		t.Run(testName, func(t *testing.T) {
			raw, err := want.Marshal()
			if err != nil {
				t.Fatalf("marshal: %s", err)
			}
			var got wireSample
			if err := got.Unmarshal(raw); err != nil {
				t.Fatalf("unmarshal: %s", err)
			}
			if got != want {
				t.Fatalf("want %+v, got %+v", want, got)
			}
		})
	}
}

func TestWireMalformed(t *testing.T) {
	// Field 1, length delimited, declares 10 bytes but carries 2.
	raw := []byte{0x0a, 0x0a, 'a', 'b'}
	var s wireSample
	if err := s.Unmarshal(raw); !errors.ErrInput.Is(err) {
		t.Fatalf("want input error, got %+v", err)
	}
}
