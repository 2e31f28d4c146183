// Package classfile extracts dependency information from JVM class files.
package classfile

import (
	"encoding/binary"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/incc/internal/core/domain"
	"go.trai.ch/zerr"
)

const magic = 0xCAFEBABE

// Constant pool tags.
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

type cpEntry struct {
	tag  byte
	utf8 string
	// a and b hold the entry's index operands.
	a, b uint16
}

// reader is a big-endian cursor that latches the first error.
type reader struct {
	data []byte
	off  int
	err  error
}

func (r *reader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if r.off+n > len(r.data) {
		r.err = zerr.With(zerr.New("truncated class file"), "offset", r.off)
		return false
	}
	return true
}

func (r *reader) u1() byte {
	if !r.need(1) {
		return 0
	}
	v := r.data[r.off]
	r.off++
	return v
}

func (r *reader) u2() uint16 {
	if !r.need(2) {
		return 0
	}
	v := binary.BigEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v
}

func (r *reader) u4() uint32 {
	if !r.need(4) {
		return 0
	}
	v := binary.BigEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v
}

func (r *reader) bytes(n int) []byte {
	if !r.need(n) {
		return nil
	}
	v := r.data[r.off : r.off+n]
	r.off += n
	return v
}

func (r *reader) skip(n int) {
	if r.need(n) {
		r.off += n
	}
}

// Parse reads a class file and returns its identity and the internal names of every class it refers to.
// The returned references include the class's own name.
func Parse(data []byte) (*domain.DependencyInfo, error) {
	r := &reader{data: data}

	if m := r.u4(); r.err == nil && m != magic {
		return nil, zerr.With(zerr.New("bad magic number"), "magic", m)
	}
	r.skip(4) // minor and major version

	pool, err := readConstantPool(r)
	if err != nil {
		return nil, err
	}

	r.skip(2) // access flags
	thisClass := r.u2()
	r.skip(2) // super class
	r.skip(2 * int(r.u2()))
	if r.err != nil {
		return nil, r.err
	}

	identity, err := className(pool, thisClass)
	if err != nil {
		return nil, zerr.Wrap(err, "invalid this_class")
	}

	refs := make(map[string]struct{})
	refs[identity] = struct{}{}

	for _, e := range pool {
		switch e.tag {
		case tagClass:
			name, ok := utf8At(pool, e.a)
			if !ok {
				return nil, zerr.With(zerr.New("class entry does not name a utf8 constant"), "index", e.a)
			}
			if strings.HasPrefix(name, "[") {
				addDescriptor(refs, name)
			} else {
				refs[name] = struct{}{}
			}
		case tagNameAndType:
			if desc, ok := utf8At(pool, e.b); ok {
				addDescriptor(refs, desc)
			}
		case tagMethodType:
			if desc, ok := utf8At(pool, e.a); ok {
				addDescriptor(refs, desc)
			}
		}
	}

	// Declared fields and methods carry descriptors that no constant refers to by NameAndType.
	for range 2 {
		if err := readMembers(r, pool, refs); err != nil {
			return nil, err
		}
	}

	return &domain.DependencyInfo{
		Identity:   domain.NewInternedString(identity),
		References: domain.NewInternedStrings(slices.Sorted(maps.Keys(refs))),
	}, nil
}

func readConstantPool(r *reader) ([]cpEntry, error) {
	count := int(r.u2())
	if r.err != nil {
		return nil, r.err
	}

	// Index 0 is unused; Long and Double occupy two slots.
	pool := make([]cpEntry, count)
	for i := 1; i < count; i++ {
		tag := r.u1()
		e := cpEntry{tag: tag}
		switch tag {
		case tagUtf8:
			n := int(r.u2())
			e.utf8 = decodeModifiedUTF8(r.bytes(n))
		case tagInteger, tagFloat:
			r.skip(4)
		case tagLong, tagDouble:
			r.skip(8)
			pool[i] = e
			i++
			continue
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			e.a = r.u2()
		case tagFieldref, tagMethodref, tagInterfaceMethodref, tagNameAndType, tagDynamic, tagInvokeDynamic:
			e.a = r.u2()
			e.b = r.u2()
		case tagMethodHandle:
			r.skip(1)
			e.a = r.u2()
		default:
			if r.err == nil {
				return nil, zerr.With(zerr.With(zerr.New("unknown constant pool tag"), "tag", tag), "index", i)
			}
		}
		if r.err != nil {
			return nil, zerr.Wrap(r.err, "failed to read constant pool")
		}
		pool[i] = e
	}
	return pool, nil
}

func readMembers(r *reader, pool []cpEntry, refs map[string]struct{}) error {
	count := int(r.u2())
	for range count {
		r.skip(4) // access flags and name
		desc := r.u2()
		attrs := int(r.u2())
		for range attrs {
			r.skip(2)
			r.skip(int(r.u4()))
		}
		if r.err != nil {
			return zerr.Wrap(r.err, "failed to read members")
		}
		if d, ok := utf8At(pool, desc); ok {
			addDescriptor(refs, d)
		}
	}
	return r.err
}

func utf8At(pool []cpEntry, idx uint16) (string, bool) {
	if int(idx) <= 0 || int(idx) >= len(pool) || pool[idx].tag != tagUtf8 {
		return "", false
	}
	return pool[idx].utf8, true
}

func className(pool []cpEntry, idx uint16) (string, error) {
	if int(idx) <= 0 || int(idx) >= len(pool) || pool[idx].tag != tagClass {
		return "", zerr.With(zerr.New("index does not name a class constant"), "index", idx)
	}
	name, ok := utf8At(pool, pool[idx].a)
	if !ok {
		return "", zerr.With(zerr.New("class constant does not name a utf8 constant"), "index", idx)
	}
	return name, nil
}

// addDescriptor records every object type named in a field or method descriptor, e.g.
// "(Ljava/lang/String;[Lcom/acme/Util;I)V".
func addDescriptor(refs map[string]struct{}, desc string) {
	for {
		start := strings.IndexByte(desc, 'L')
		if start < 0 {
			return
		}
		end := strings.IndexByte(desc[start:], ';')
		if end < 0 {
			return
		}
		if name := desc[start+1 : start+end]; name != "" {
			refs[name] = struct{}{}
		}
		desc = desc[start+end+1:]
	}
}

// decodeModifiedUTF8 decodes the JVM's modified UTF-8.
// Plain ASCII and ordinary two and three byte sequences decode like UTF-8; the
// encoded NUL (0xC0 0x80) becomes U+0000 and surrogate pairs are combined.
func decodeModifiedUTF8(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	var high rune
	for i := 0; i < len(b); {
		c := b[i]
		var r rune
		switch {
		case c < 0x80:
			r = rune(c)
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			r = rune(c&0x1F)<<6 | rune(b[i+1]&0x3F)
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			r = rune(c&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
			i += 3
		default:
			r = '�'
			i++
		}
		switch {
		case r >= 0xD800 && r <= 0xDBFF:
			high = r
			continue
		case r >= 0xDC00 && r <= 0xDFFF && high != 0:
			r = (high-0xD800)<<10 + (r - 0xDC00) + 0x10000
		}
		high = 0
		sb.WriteRune(r)
	}
	return sb.String()
}
