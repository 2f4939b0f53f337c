package codec

import (
	"fmt"

	"github.com/astro-stan/itc"
	"github.com/astro-stan/itc/event"
	"github.com/astro-stan/itc/id"
)

// MajorVersion is the wire-format version this implementation writes
// and accepts.
const MajorVersion = 1

// Identity node tags.
const (
	tagNullLeaf = 0x00
	tagInternal = 0x01
	tagSeedLeaf = 0x02
)

// Event node header: bit 0 flags an internal node, bits 1-4 carry the
// counter width in bytes, bits 5-7 are reserved.
const (
	evParentBit    = 0x01
	evLenShift     = 1
	evLenMask      = 0x0f
	evReservedMask = 0xe0
)

// counterBytes is the widest counter the implementation accepts on the
// wire.
const counterBytes = 4

// MarshalStamp serialises a stamp.
func MarshalStamp(s *itc.Stamp) ([]byte, error) {
	i, e := s.IdTree(), s.EventTree()
	if i == nil || e == nil {
		return nil, fmt.Errorf("%w: void stamp", ErrCorruptStamp)
	}
	if err := i.Validate(); err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	idBlob := AppendId(nil, i)
	evBlob := AppendEvent(nil, e)
	lid := lenFieldWidth(len(idBlob))
	lev := lenFieldWidth(len(evBlob))

	buf := make([]byte, 0, 2+lid+lev+len(idBlob)+len(evBlob))
	buf = append(buf, MajorVersion)
	buf = append(buf, byte(lid)|byte(lev)<<3)
	buf = appendBigEndian(buf, uint32(len(idBlob)), lid)
	buf = append(buf, idBlob...)
	buf = appendBigEndian(buf, uint32(len(evBlob)), lev)
	buf = append(buf, evBlob...)
	return buf, nil
}

// AppendId appends the pre-order identity component blob to buf.
func AppendId(buf []byte, i *id.Id) []byte {
	if i.IsLeaf() {
		if i.Owned() {
			return append(buf, tagSeedLeaf)
		}
		return append(buf, tagNullLeaf)
	}
	buf = append(buf, tagInternal)
	buf = AppendId(buf, i.Left())
	return AppendId(buf, i.Right())
}

// AppendEvent appends the pre-order event component blob to buf.
func AppendEvent(buf []byte, e *event.Event) []byte {
	n := uint32(e.Value())
	width := 0
	for v := n; v != 0; v >>= 8 {
		width++
	}
	hdr := byte(width) << evLenShift
	if !e.IsLeaf() {
		hdr |= evParentBit
	}
	buf = append(buf, hdr)
	buf = appendBigEndian(buf, n, width)
	if e.IsLeaf() {
		return buf
	}
	buf = AppendEvent(buf, e.Left())
	return AppendEvent(buf, e.Right())
}

// lenFieldWidth returns the minimal 1..4 byte width holding n.
func lenFieldWidth(n int) int {
	switch {
	case n <= 0xff:
		return 1
	case n <= 0xffff:
		return 2
	case n <= 0xffffff:
		return 3
	}
	return 4
}

func appendBigEndian(buf []byte, v uint32, width int) []byte {
	for i := width - 1; i >= 0; i-- {
		buf = append(buf, byte(v>>(8*i)))
	}
	return buf
}

// UnmarshalStamp deserialises a stamp, rejecting damaged buffers.
// The decoded trees are rebuilt through the validating constructor, so
// a successful result is a well-formed, independently owned stamp.
func UnmarshalStamp(data []byte) (*itc.Stamp, error) {
	d := decoder{buf: data}
	version, err := d.u8()
	if err != nil {
		return nil, err
	}
	if version != MajorVersion {
		return nil, fmt.Errorf("%w: stored %d, implementation %d",
			ErrIncompatibleVersion, version, MajorVersion)
	}
	hdr, err := d.u8()
	if err != nil {
		return nil, err
	}
	if hdr&0xc0 != 0 {
		return nil, fmt.Errorf("%w: reserved stamp header bits set", ErrCorruptStamp)
	}
	lid := int(hdr & 0x07)
	lev := int(hdr >> 3 & 0x07)
	if lid < 1 || lid > 4 || lev < 1 || lev > 4 {
		return nil, fmt.Errorf("%w: bad length-field width", ErrCorruptStamp)
	}

	idBlob, err := d.componentBlob(lid)
	if err != nil {
		return nil, err
	}
	i, err := idBlob.idTree()
	if err != nil {
		return nil, err
	}
	if idBlob.pos != len(idBlob.buf) {
		id.Destroy(i)
		return nil, fmt.Errorf("%w: identity blob not fully consumed", ErrCorruptStamp)
	}
	evBlob, err := d.componentBlob(lev)
	if err != nil {
		id.Destroy(i)
		return nil, err
	}
	e, err := evBlob.eventTree()
	if err != nil {
		id.Destroy(i)
		return nil, err
	}
	if evBlob.pos != len(evBlob.buf) {
		id.Destroy(i)
		event.Destroy(e)
		return nil, fmt.Errorf("%w: event blob not fully consumed", ErrCorruptStamp)
	}
	if d.pos != len(d.buf) {
		id.Destroy(i)
		event.Destroy(e)
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptStamp, len(d.buf)-d.pos)
	}
	s, err := itc.Rebuild(i, e)
	if err != nil {
		id.Destroy(i)
		event.Destroy(e)
		return nil, err
	}
	tracer().Debugf("decoded stamp %v from %d bytes", s, len(data))
	return s, nil
}

// DecodeId decodes a bare identity component blob.
func DecodeId(data []byte) (*id.Id, error) {
	d := decoder{buf: data}
	i, err := d.idTree()
	if err != nil {
		return nil, err
	}
	if d.pos != len(d.buf) {
		id.Destroy(i)
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptStamp, len(d.buf)-d.pos)
	}
	return i, nil
}

// DecodeEvent decodes a bare event component blob.
func DecodeEvent(data []byte) (*event.Event, error) {
	d := decoder{buf: data}
	e, err := d.eventTree()
	if err != nil {
		return nil, err
	}
	if d.pos != len(d.buf) {
		event.Destroy(e)
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptStamp, len(d.buf)-d.pos)
	}
	return e, nil
}

type decoder struct {
	buf []byte
	pos int
}

func (d *decoder) u8() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, fmt.Errorf("%w: truncated at byte %d", ErrCorruptStamp, d.pos)
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) bigEndian(width int) (uint32, error) {
	var v uint32
	for ; width > 0; width-- {
		b, err := d.u8()
		if err != nil {
			return 0, err
		}
		v = v<<8 | uint32(b)
	}
	return v, nil
}

// componentBlob reads a length-prefixed component blob and returns a
// decoder scoped to it, advancing past the blob.
func (d *decoder) componentBlob(widthField int) (*decoder, error) {
	length, err := d.bigEndian(widthField)
	if err != nil {
		return nil, err
	}
	if d.pos+int(length) > len(d.buf) {
		return nil, fmt.Errorf("%w: component length %d overruns buffer", ErrCorruptStamp, length)
	}
	sub := &decoder{buf: d.buf[d.pos : d.pos+int(length)]}
	d.pos += int(length)
	return sub, nil
}

func (d *decoder) idTree() (*id.Id, error) {
	tag, err := d.u8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagNullLeaf:
		return id.Null()
	case tagSeedLeaf:
		return id.Seed()
	case tagInternal:
		left, err := d.idTree()
		if err != nil {
			return nil, err
		}
		right, err := d.idTree()
		if err != nil {
			id.Destroy(left)
			return nil, err
		}
		return id.Parent(left, right)
	}
	return nil, fmt.Errorf("%w: unknown identity node tag 0x%02x", ErrCorruptStamp, tag)
}

func (d *decoder) eventTree() (*event.Event, error) {
	hdr, err := d.u8()
	if err != nil {
		return nil, err
	}
	if hdr&evReservedMask != 0 {
		return nil, fmt.Errorf("%w: reserved event header bits set", ErrCorruptStamp)
	}
	width := int(hdr >> evLenShift & evLenMask)
	if width > counterBytes {
		return nil, fmt.Errorf("%w: %d-byte counter", ErrUnsupportedCounterSize, width)
	}
	n, err := d.bigEndian(width)
	if err != nil {
		return nil, err
	}
	if hdr&evParentBit == 0 {
		return event.NewLeaf(event.Counter(n))
	}
	left, err := d.eventTree()
	if err != nil {
		return nil, err
	}
	right, err := d.eventTree()
	if err != nil {
		event.Destroy(left)
		return nil, err
	}
	return event.NewParent(event.Counter(n), left, right)
}
