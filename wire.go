package weave

import (
	"github.com/fymoney/weave/errors"
	"github.com/gogo/protobuf/proto"
)

// Protobuf wire types used by the hand written message codecs.
const (
	WireVarint = 0
	WireBytes  = 2
)

// WireWriter serializes fields using the protobuf wire format. Messages and
// transactions are small and stable, so they are encoded field by field
// instead of through generated code.
//
// Zero values are omitted, as protobuf encoders do.
type WireWriter struct {
	buf *proto.Buffer
	err error
}

// NewWireWriter returns an empty writer.
func NewWireWriter() *WireWriter {
	return &WireWriter{buf: proto.NewBuffer(nil)}
}

func (w *WireWriter) tag(field int, wireType int) {
	if w.err != nil {
		return
	}
	w.err = w.buf.EncodeVarint(uint64(field)<<3 | uint64(wireType))
}

// Bytes writes a length delimited field.
func (w *WireWriter) Bytes(field int, b []byte) {
	if len(b) == 0 {
		return
	}
	w.tag(field, WireBytes)
	if w.err == nil {
		w.err = w.buf.EncodeRawBytes(b)
	}
}

// String writes a length delimited string field.
func (w *WireWriter) String(field int, s string) {
	w.Bytes(field, []byte(s))
}

// Uint64 writes a varint field.
func (w *WireWriter) Uint64(field int, v uint64) {
	if v == 0 {
		return
	}
	w.tag(field, WireVarint)
	if w.err == nil {
		w.err = w.buf.EncodeVarint(v)
	}
}

// Int64 writes a varint field, two's complement encoded as int64 is in
// protobuf.
func (w *WireWriter) Int64(field int, v int64) {
	w.Uint64(field, uint64(v))
}

// Message writes an embedded message field. Nil messages are skipped.
func (w *WireWriter) Message(field int, m Marshaller) {
	if w.err != nil || m == nil {
		return
	}
	raw, err := m.Marshal()
	if err != nil {
		w.err = err
		return
	}
	w.tag(field, WireBytes)
	if w.err == nil {
		w.err = w.buf.EncodeRawBytes(raw)
	}
}

// Result returns the serialized form or the first error that happened
// while writing.
func (w *WireWriter) Result() ([]byte, error) {
	if w.err != nil {
		return nil, errors.Wrap(w.err, "wire encode")
	}
	return w.buf.Bytes(), nil
}

// WireReader reads fields written by the WireWriter (or any protobuf
// encoder).
type WireReader struct {
	raw []byte
	pos int

	field    int
	wireType int
	value    []byte
	varint   uint64
}

// NewWireReader returns a reader over given serialized message.
func NewWireReader(raw []byte) *WireReader {
	return &WireReader{raw: raw}
}

// Next advances to the next field. It returns false when there are no more
// fields to read or an error if the input is malformed.
func (r *WireReader) Next() (bool, error) {
	if r.pos >= len(r.raw) {
		return false, nil
	}
	key, n := proto.DecodeVarint(r.raw[r.pos:])
	if n == 0 {
		return false, errors.Wrap(errors.ErrInput, "malformed field key")
	}
	r.pos += n
	r.field = int(key >> 3)
	r.wireType = int(key & 0x7)

	switch r.wireType {
	case WireVarint:
		v, n := proto.DecodeVarint(r.raw[r.pos:])
		if n == 0 {
			return false, errors.Wrapf(errors.ErrInput, "malformed varint field %d", r.field)
		}
		r.pos += n
		r.varint = v
		r.value = nil
	case WireBytes:
		size, n := proto.DecodeVarint(r.raw[r.pos:])
		if n == 0 {
			return false, errors.Wrapf(errors.ErrInput, "malformed length of field %d", r.field)
		}
		r.pos += n
		end := r.pos + int(size)
		if size > uint64(len(r.raw)) || end > len(r.raw) {
			return false, errors.Wrapf(errors.ErrInput, "field %d exceeds message size", r.field)
		}
		r.value = append([]byte(nil), r.raw[r.pos:end]...)
		r.pos = end
	default:
		return false, errors.Wrapf(errors.ErrInput, "unsupported wire type %d of field %d", r.wireType, r.field)
	}
	return true, nil
}

// Field returns the number of the current field.
func (r *WireReader) Field() int {
	return r.field
}

// Bytes returns the value of the current length delimited field.
func (r *WireReader) Bytes() ([]byte, error) {
	if r.wireType != WireBytes {
		return nil, errors.Wrapf(errors.ErrInput, "field %d is not length delimited", r.field)
	}
	return r.value, nil
}

// Uint64 returns the value of the current varint field.
func (r *WireReader) Uint64() (uint64, error) {
	if r.wireType != WireVarint {
		return 0, errors.Wrapf(errors.ErrInput, "field %d is not a varint", r.field)
	}
	return r.varint, nil
}

// Int64 returns the value of the current varint field as a signed number.
func (r *WireReader) Int64() (int64, error) {
	v, err := r.Uint64()
	return int64(v), err
}

// Message unmarshals the current length delimited field into dst.
func (r *WireReader) Message(dst Persistent) error {
	raw, err := r.Bytes()
	if err != nil {
		return err
	}
	return dst.Unmarshal(raw)
}
