package compare_test

import (
	"bytes"
	"encoding/binary"
)

type fixtureAttr struct {
	id     uint32
	name   string
	syntax byte
}

type fixtureObject struct {
	suffix string
	attrs  map[uint32][][]byte
}

func utf16Encode(s string) []uint16 {
	out := make([]uint16, 0, len(s))
	for _, r := range s {
		out = append(out, uint16(r))
	}
	return out
}

func utf16leString(s string) []byte {
	var buf bytes.Buffer
	units := utf16Encode(s)
	binary.Write(&buf, binary.LittleEndian, uint32(len(units)))
	for _, u := range units {
		binary.Write(&buf, binary.LittleEndian, u)
	}
	return buf.Bytes()
}

func utf16leValue(s string) []byte {
	units := utf16Encode(s)
	out := make([]byte, 0, len(units)*2)
	for _, u := range units {
		out = append(out, byte(u), byte(u>>8))
	}
	return out
}

func guidValue(b byte) []byte {
	raw := make([]byte, 16)
	raw[0] = b
	return raw
}

func u32le(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func buildFixture(attrs []fixtureAttr, objects []fixtureObject) []byte {
	var attrSection, objSection bytes.Buffer

	for _, a := range attrs {
		attrSection.Write(u32le(a.id))
		attrSection.Write(utf16leString(a.name))
		attrSection.Write(utf16leString(a.name))
		attrSection.WriteByte(a.syntax)
		attrSection.WriteByte(0)
	}

	prefixSection := utf16leString("")

	for _, o := range objects {
		var rec bytes.Buffer
		rec.Write(u32le(0))
		rec.Write(utf16leString(o.suffix))
		rec.Write(u32le(uint32(len(o.attrs))))
		for attrID, values := range o.attrs {
			rec.Write(u32le(attrID))
			rec.Write(u32le(uint32(len(values))))
			for _, v := range values {
				rec.Write(u32le(uint32(len(v))))
				rec.Write(v)
			}
		}
		objSection.Write(u32le(uint32(rec.Len())))
		objSection.Write(rec.Bytes())
	}

	sourceServer := utf16leString("dc01.example.com")
	headerVariableLen := 8 + 4 + 8 + len(sourceServer) + 8*4

	attrOffset := uint32(headerVariableLen)
	classOffset := attrOffset + uint32(attrSection.Len())
	prefixOffset := classOffset
	objOffset := prefixOffset + uint32(len(prefixSection))

	var out bytes.Buffer
	out.WriteString("ADEXSNAP")
	out.Write(u32le(1))
	out.Write(make([]byte, 8))
	out.Write(sourceServer)
	out.Write(u32le(attrOffset))
	out.Write(u32le(uint32(len(attrs))))
	out.Write(u32le(classOffset))
	out.Write(u32le(0))
	out.Write(u32le(prefixOffset))
	out.Write(u32le(1))
	out.Write(u32le(objOffset))
	out.Write(u32le(uint32(len(objects))))

	out.Write(attrSection.Bytes())
	out.Write(prefixSection)
	out.Write(objSection.Bytes())

	return out.Bytes()
}
