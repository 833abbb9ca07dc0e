package snapshot

import (
	"fmt"

	adschema "adxquery/activedirectory/schema"
	"adxquery/cursor"
)

func loadAttributes(c *cursor.Cursor, offset, count uint32) ([]*adschema.AttributeDef, error) {
	if err := c.Seek(int(offset)); err != nil {
		return nil, &CorruptSnapshot{Offset: int(offset), Reason: "attribute section offset out of bounds"}
	}
	defs := make([]*adschema.AttributeDef, 0, count)
	for i := uint32(0); i < count; i++ {
		id, err := c.ReadU32()
		if err != nil {
			return nil, &CorruptSnapshot{Offset: c.Position(), Reason: "truncated attribute record"}
		}
		name, err := c.ReadUnicode()
		if err != nil {
			return nil, &CorruptSnapshot{Offset: c.Position(), Reason: "truncated attribute name"}
		}
		attributeID, err := c.ReadUnicode()
		if err != nil {
			return nil, &CorruptSnapshot{Offset: c.Position(), Reason: "truncated attribute id string"}
		}
		syntaxByte, err := c.ReadU8()
		if err != nil {
			return nil, &CorruptSnapshot{Offset: c.Position(), Reason: "truncated attribute syntax code"}
		}
		singleValuedByte, err := c.ReadU8()
		if err != nil {
			return nil, &CorruptSnapshot{Offset: c.Position(), Reason: "truncated attribute cardinality flag"}
		}
		defs = append(defs, &adschema.AttributeDef{
			ID:             id,
			Name:           name,
			AttributeID:    attributeID,
			Syntax:         adschema.SyntaxCode(syntaxByte),
			IsSingleValued: singleValuedByte != 0,
		})
	}
	return defs, nil
}

func loadClasses(c *cursor.Cursor, offset, count uint32) ([]*adschema.ClassDef, error) {
	if err := c.Seek(int(offset)); err != nil {
		return nil, &CorruptSnapshot{Offset: int(offset), Reason: "class section offset out of bounds"}
	}
	defs := make([]*adschema.ClassDef, 0, count)
	for i := uint32(0); i < count; i++ {
		id, err := c.ReadU32()
		if err != nil {
			return nil, &CorruptSnapshot{Offset: c.Position(), Reason: "truncated class record"}
		}
		name, err := c.ReadUnicode()
		if err != nil {
			return nil, &CorruptSnapshot{Offset: c.Position(), Reason: "truncated class name"}
		}
		defs = append(defs, &adschema.ClassDef{ID: id, Name: name})
	}
	return defs, nil
}

func loadPrefixes(c *cursor.Cursor, offset, count uint32) ([]string, error) {
	if err := c.Seek(int(offset)); err != nil {
		return nil, &CorruptSnapshot{Offset: int(offset), Reason: "prefix section offset out of bounds"}
	}
	prefixes := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		s, err := c.ReadUnicode()
		if err != nil {
			return nil, &CorruptSnapshot{Offset: c.Position(), Reason: fmt.Sprintf("truncated prefix entry %d", i)}
		}
		prefixes = append(prefixes, s)
	}
	return prefixes, nil
}
