package snapshot

import (
	"fmt"
	"log"
	"os"

	ad "adxquery/activedirectory"
	adschema "adxquery/activedirectory/schema"
	"adxquery/activedirectory/valuecodec"
	"adxquery/cursor"
	"adxquery/orderedmap"
)

// Snapshot is an opened, schema-loaded ADExplorer file. Header and schema
// parsing are eager; the object stream is exposed only through a lazy
// iterator. A Snapshot is immutable after Open returns and may be shared
// by any number of concurrent object iterators, each with its own cursor
// position.
type Snapshot struct {
	header *Header
	schema *adschema.Schema
	prefix *adschema.PrefixTable
	buf    []byte
	logger *log.Logger
}

// Open reads path fully into memory, parses the header, schema, class,
// and prefix sections, and returns a Snapshot ready for querying. logger
// receives non-fatal DecodeWarnings and schema duplicate-name warnings; a
// nil logger defaults to log.Default().
func Open(path string, logger *log.Logger) (*Snapshot, error) {
	if logger == nil {
		logger = log.Default()
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: opening %s: %w", path, err)
	}
	return OpenBytes(buf, logger)
}

// OpenBytes parses an already-loaded snapshot buffer. Exposed separately
// from Open so tests and the compare package can work from in-memory
// fixtures without touching a filesystem.
func OpenBytes(buf []byte, logger *log.Logger) (*Snapshot, error) {
	if logger == nil {
		logger = log.Default()
	}
	c := cursor.New(buf)
	header, err := readHeader(c)
	if err != nil {
		return nil, err
	}

	attrs, err := loadAttributes(c, header.AttributeSectionOffset, header.AttributeCount)
	if err != nil {
		return nil, err
	}
	classes, err := loadClasses(c, header.ClassSectionOffset, header.ClassCount)
	if err != nil {
		return nil, err
	}
	prefixes, err := loadPrefixes(c, header.PrefixSectionOffset, header.PrefixCount)
	if err != nil {
		return nil, err
	}

	warn := func(msg string) { logger.Printf("snapshot: %s", msg) }
	s := adschema.NewSchema(attrs, classes, warn)
	pt := adschema.NewPrefixTable(prefixes)

	return &Snapshot{header: header, schema: s, prefix: pt, buf: buf, logger: logger}, nil
}

// Schema returns the snapshot's attribute/class catalog.
func (s *Snapshot) Schema() *adschema.Schema { return s.schema }

// PrefixTable returns the snapshot's DN prefix table.
func (s *Snapshot) PrefixTable() *adschema.PrefixTable { return s.prefix }

// HeaderRecord is the structured metadata record returned by DumpHeader.
type HeaderRecord struct {
	Version        uint32
	SourceServer   string
	CreatedRaw     []byte
	AttributeCount uint32
	ClassCount     uint32
	PrefixCount    uint32
	ObjectCount    uint32
}

// DumpHeader returns a structured snapshot-metadata record, surfaced by the
// CLI driver's header subcommand.
func (s *Snapshot) DumpHeader() HeaderRecord {
	return HeaderRecord{
		Version:        s.header.Version,
		SourceServer:   s.header.SourceServer,
		CreatedRaw:     s.header.CreatedRaw,
		AttributeCount: s.header.AttributeCount,
		ClassCount:     s.header.ClassCount,
		PrefixCount:    s.header.PrefixCount,
		ObjectCount:    s.header.ObjectCount,
	}
}

// ObjectIter is a pull-based, forward-only iterator over a Snapshot's
// object section. It is single-threaded: callers must not share one
// ObjectIter across goroutines. A partially consumed iterator is safe to
// drop at any point — it holds no file handle, only a slice view into the
// Snapshot's already-loaded buffer.
type ObjectIter struct {
	snap    *Snapshot
	cur     *cursor.Cursor
	remain  uint32
	err     error
	decodeErrs int
}

// Objects returns a lazy iterator over this snapshot's object records, in
// file order.
func (s *Snapshot) Objects() *ObjectIter {
	c := cursor.New(s.buf)
	_ = c.Seek(int(s.header.ObjectSectionOffset))
	return &ObjectIter{snap: s, cur: c, remain: s.header.ObjectCount}
}

// Next advances the iterator and returns the next decoded Object. It
// returns ok=false once the section is exhausted or a fatal error has
// occurred; callers must check Err() to distinguish the two.
func (it *ObjectIter) Next() (*ad.Object, bool) {
	if it.err != nil || it.remain == 0 {
		return nil, false
	}
	obj, err := it.readOne()
	if err != nil {
		it.err = err
		return nil, false
	}
	it.remain--
	return obj, true
}

// Err returns the sticky fatal error that terminated iteration, if any.
func (it *ObjectIter) Err() error { return it.err }

// DecodeErrors reports how many non-fatal per-value decode failures have
// occurred so far (each demoted the offending value to Unknown).
func (it *ObjectIter) DecodeErrors() int { return it.decodeErrs }

func (it *ObjectIter) readOne() (*ad.Object, error) {
	c := it.cur
	recordStart := c.Position()

	length, err := c.ReadU32()
	if err != nil {
		return nil, &CorruptSnapshot{Offset: recordStart, Reason: "truncated object record length"}
	}
	recordEnd := c.Position() + int(length)
	if recordEnd > c.Len() {
		return nil, &CorruptSnapshot{Offset: recordStart, Reason: "object record length exceeds file bounds"}
	}

	prefixID, err := c.ReadU32()
	if err != nil {
		return nil, &CorruptSnapshot{Offset: recordStart, Reason: "truncated DN prefix id"}
	}
	suffix, err := c.ReadUnicode()
	if err != nil {
		return nil, &CorruptSnapshot{Offset: recordStart, Reason: "truncated DN suffix"}
	}
	dn, err := it.snap.prefix.Resolve(prefixID, suffix)
	if err != nil {
		return nil, &CorruptSnapshot{Offset: recordStart, Reason: err.Error()}
	}

	attrCount, err := c.ReadU32()
	if err != nil {
		return nil, &CorruptSnapshot{Offset: recordStart, Reason: "truncated attribute count"}
	}

	attrs := orderedmap.New[uint32, []ad.Value]()
	for i := uint32(0); i < attrCount; i++ {
		attrID, err := c.ReadU32()
		if err != nil {
			return nil, &CorruptSnapshot{Offset: recordStart, Reason: "truncated attribute id"}
		}
		valueCount, err := c.ReadU32()
		if err != nil {
			return nil, &CorruptSnapshot{Offset: recordStart, Reason: "truncated value count"}
		}
		def, known := it.snap.schema.AttributeByID(attrID)
		values := make([]ad.Value, 0, valueCount)
		for j := uint32(0); j < valueCount; j++ {
			blobLen, err := c.ReadU32()
			if err != nil {
				return nil, &CorruptSnapshot{Offset: recordStart, Reason: "truncated value length"}
			}
			blob, err := c.ReadBytes(int(blobLen))
			if err != nil {
				return nil, &CorruptSnapshot{Offset: recordStart, Reason: "value blob exceeds record bounds"}
			}
			v, decodeErr := it.decodeValue(def, blob)
			if decodeErr != nil {
				it.decodeErrs++
				name := "unknown"
				if known {
					name = def.Name
				}
				it.snap.logger.Printf("snapshot: %s", (&DecodeWarning{Attribute: name, Reason: decodeErr.Error()}).Error())
				v = ad.UnknownValue(blob)
			}
			values = append(values, v)
		}
		attrs.Set(attrID, values)
	}

	if c.Position() != recordEnd {
		return nil, &CorruptSnapshot{Offset: recordStart, Reason: "object record length did not match decoded field sizes"}
	}

	return &ad.Object{DN: dn, Attributes: attrs}, nil
}

func (it *ObjectIter) decodeValue(def *adschema.AttributeDef, blob []byte) (ad.Value, error) {
	if def == nil {
		return ad.UnknownValue(blob), nil
	}
	switch def.Syntax {
	case adschema.SyntaxString:
		s, err := valuecodec.DecodeUTF16(blob)
		if err != nil {
			return ad.Value{}, err
		}
		return ad.StringValue(s), nil
	case adschema.SyntaxInteger:
		i, err := valuecodec.DecodeInteger(blob)
		if err != nil {
			return ad.Value{}, err
		}
		return ad.IntegerValue(i), nil
	case adschema.SyntaxBoolean:
		b, err := valuecodec.DecodeBoolean(blob)
		if err != nil {
			return ad.Value{}, err
		}
		return ad.BooleanValue(b), nil
	case adschema.SyntaxGUID:
		id, err := valuecodec.DecodeGUID(blob)
		if err != nil {
			return ad.Value{}, err
		}
		return ad.GuidValue(valuecodec.FormatGUID(id)), nil
	case adschema.SyntaxSID:
		textual, err := valuecodec.DecodeSID(blob)
		if err != nil {
			return ad.Value{}, err
		}
		return ad.SidValue(textual), nil
	case adschema.SyntaxFILETIME:
		t, never, err := valuecodec.DecodeFILETIME(blob)
		if err != nil {
			return ad.Value{}, err
		}
		return ad.TimestampValue(t, never), nil
	case adschema.SyntaxDN:
		// DN-valued attributes are stored the same way the object's own DN
		// is: a prefix id followed by a suffix, packed into the value blob.
		vc := cursor.New(blob)
		prefixID, err := vc.ReadU32()
		if err != nil {
			return ad.Value{}, err
		}
		suffix, err := vc.ReadUnicode()
		if err != nil {
			return ad.Value{}, err
		}
		dn, err := it.snap.prefix.Resolve(prefixID, suffix)
		if err != nil {
			return ad.Value{}, err
		}
		return ad.DnValue(dn), nil
	case adschema.SyntaxSecurityDescriptor:
		return ad.SecurityDescriptorValue(blob), nil
	case adschema.SyntaxOctetString, adschema.SyntaxOtherBinary:
		return ad.BinaryValue(blob), nil
	default:
		return ad.UnknownValue(blob), nil
	}
}
