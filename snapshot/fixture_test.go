package snapshot_test

import (
	"bytes"
	"encoding/binary"
)

// fixtureAttr describes one attribute-schema record for buildFixture.
type fixtureAttr struct {
	id             uint32
	name           string
	syntax         byte
	isSingleValued bool
}

// fixtureObject describes one object record for buildFixture: attribute
// id -> raw value blobs already encoded per the attribute's syntax.
type fixtureObject struct {
	prefixID uint32
	suffix   string
	attrs    map[uint32][][]byte
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

// utf16Encode is a minimal ASCII/BMP-only UTF-16 encoder sufficient for
// fixture text (no surrogate pairs needed in these tests).
func utf16Encode(s string) []uint16 {
	out := make([]uint16, 0, len(s))
	for _, r := range s {
		out = append(out, uint16(r))
	}
	return out
}

func u32le(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func u8(v byte) []byte { return []byte{v} }

func buildFixture(attrs []fixtureAttr, objects []fixtureObject) []byte {
	var attrSection, classSection, prefixSection, objSection bytes.Buffer

	for _, a := range attrs {
		attrSection.Write(u32le(a.id))
		attrSection.Write(utf16leString(a.name))
		attrSection.Write(utf16leString(a.name)) // attributeID, reused for fixtures
		sv := byte(0)
		if a.isSingleValued {
			sv = 1
		}
		attrSection.Write(u8(a.syntax))
		attrSection.Write(u8(sv))
	}

	prefixes := []string{""}
	prefixSection.Write(utf16leString(""))

	for _, o := range objects {
		var rec bytes.Buffer
		rec.Write(u32le(o.prefixID))
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
	_ = prefixes

	const headerFixedLen = 8 + 4 + 8 // signature + version + created
	sourceServer := utf16leString("dc01.example.com")
	headerVariableLen := headerFixedLen + len(sourceServer) + 8*4

	attrOffset := uint32(headerVariableLen)
	classOffset := attrOffset + uint32(attrSection.Len())
	prefixOffset := classOffset + uint32(classSection.Len())
	objOffset := prefixOffset + uint32(prefixSection.Len())

	var out bytes.Buffer
	out.WriteString("ADEXSNAP")
	out.Write(u32le(1))
	out.Write(make([]byte, 8)) // created FILETIME, unused by these tests
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
	out.Write(classSection.Bytes())
	out.Write(prefixSection.Bytes())
	out.Write(objSection.Bytes())

	return out.Bytes()
}
