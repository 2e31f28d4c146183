package classfile_test

import (
	"encoding/binary"
)

// classBuilder assembles minimal class files for tests.
type classBuilder struct {
	pool    [][]byte
	slots   int
	utf8s   map[string]uint16
	classes map[string]uint16
	fields  []string
	methods []string
}

func newClassBuilder() *classBuilder {
	return &classBuilder{
		slots:   1,
		utf8s:   make(map[string]uint16),
		classes: make(map[string]uint16),
	}
}

func (b *classBuilder) add(entry []byte, width int) uint16 {
	idx := uint16(b.slots)
	b.pool = append(b.pool, entry)
	b.slots += width
	return idx
}

func (b *classBuilder) utf8(s string) uint16 {
	if idx, ok := b.utf8s[s]; ok {
		return idx
	}
	entry := []byte{1}
	entry = binary.BigEndian.AppendUint16(entry, uint16(len(s)))
	entry = append(entry, s...)
	idx := b.add(entry, 1)
	b.utf8s[s] = idx
	return idx
}

func (b *classBuilder) class(name string) uint16 {
	if idx, ok := b.classes[name]; ok {
		return idx
	}
	n := b.utf8(name)
	idx := b.add(binary.BigEndian.AppendUint16([]byte{7}, n), 1)
	b.classes[name] = idx
	return idx
}

func (b *classBuilder) long(v uint64) {
	b.add(binary.BigEndian.AppendUint64([]byte{5}, v), 2)
}

func (b *classBuilder) nameAndType(name, desc string) uint16 {
	n, d := b.utf8(name), b.utf8(desc)
	entry := binary.BigEndian.AppendUint16([]byte{12}, n)
	return b.add(binary.BigEndian.AppendUint16(entry, d), 1)
}

func (b *classBuilder) methodRef(owner, name, desc string) {
	c := b.class(owner)
	nt := b.nameAndType(name, desc)
	entry := binary.BigEndian.AppendUint16([]byte{10}, c)
	b.add(binary.BigEndian.AppendUint16(entry, nt), 1)
}

func (b *classBuilder) methodType(desc string) {
	d := b.utf8(desc)
	b.add(binary.BigEndian.AppendUint16([]byte{16}, d), 1)
}

func (b *classBuilder) field(desc string)  { b.fields = append(b.fields, desc) }
func (b *classBuilder) method(desc string) { b.methods = append(b.methods, desc) }

func (b *classBuilder) build(this, super string) []byte {
	thisIdx := b.class(this)
	superIdx := b.class(super)
	code := b.utf8("Code")

	members := func(descs []string) []byte {
		var out []byte
		out = binary.BigEndian.AppendUint16(out, uint16(len(descs)))
		for _, d := range descs {
			out = binary.BigEndian.AppendUint16(out, 0x0001)
			out = binary.BigEndian.AppendUint16(out, b.utf8("m"))
			out = binary.BigEndian.AppendUint16(out, b.utf8(d))
			// One opaque attribute that the parser must skip.
			out = binary.BigEndian.AppendUint16(out, 1)
			out = binary.BigEndian.AppendUint16(out, code)
			out = binary.BigEndian.AppendUint32(out, 3)
			out = append(out, 0xAA, 0xBB, 0xCC)
		}
		return out
	}
	fields := members(b.fields)
	methods := members(b.methods)

	var out []byte
	out = binary.BigEndian.AppendUint32(out, 0xCAFEBABE)
	out = binary.BigEndian.AppendUint16(out, 0)
	out = binary.BigEndian.AppendUint16(out, 65)
	out = binary.BigEndian.AppendUint16(out, uint16(b.slots))
	for _, e := range b.pool {
		out = append(out, e...)
	}
	out = binary.BigEndian.AppendUint16(out, 0x0021)
	out = binary.BigEndian.AppendUint16(out, thisIdx)
	out = binary.BigEndian.AppendUint16(out, superIdx)
	out = binary.BigEndian.AppendUint16(out, 0) // interfaces
	out = append(out, fields...)
	out = append(out, methods...)
	out = binary.BigEndian.AppendUint16(out, 0) // class attributes
	return out
}
