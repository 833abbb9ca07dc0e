// Package compare implements ADExplorer's "compare snapshots" feature:
// matching objects between two decoded snapshots and reporting additions,
// removals, and per-attribute changes.
package compare

import (
	"strconv"
	"strings"

	"adxquery/activedirectory"
	adschema "adxquery/activedirectory/schema"
	"adxquery/snapshot"
)

// AttributeChange describes one attribute's value set differing between
// two matched objects.
type AttributeChange struct {
	Name string
	Old  []string
	New  []string
}

// ObjectSummary identifies an added or removed object.
type ObjectSummary struct {
	DN         string
	ObjectGUID string
}

// ObjectDiff describes a matched object whose attributes differ between
// the two snapshots.
type ObjectDiff struct {
	DN         string
	ObjectGUID string
	Attributes []AttributeChange
}

// Result is the full outcome of comparing two snapshots.
type Result struct {
	Added   []ObjectSummary
	Removed []ObjectSummary
	Changed []ObjectDiff
}

// Options configures a comparison run.
type Options struct {
	// CaseInsensitive folds string comparisons the same way filter
	// evaluation does, for consistency between querying and comparing.
	CaseInsensitive bool
}

// Snapshots compares the object streams of two already-open snapshots.
// Each object is keyed by its GUID when it carries one and by its DN
// otherwise (see matchKey), so objects pair up only when both sides have
// the same GUID, or both lack a GUID and share a DN; an object that has a
// GUID in one snapshot and none in the other is reported as removed and
// added. It performs no writes to either snapshot.
func Snapshots(a, b *snapshot.Snapshot, opts Options) (Result, error) {
	oldByKey, err := indexObjects(a)
	if err != nil {
		return Result{}, err
	}
	newByKey, err := indexObjects(b)
	if err != nil {
		return Result{}, err
	}

	var result Result

	for key, newObj := range newByKey {
		oldObj, existed := oldByKey[key]
		if !existed {
			result.Added = append(result.Added, summarize(newObj))
			continue
		}
		changes := diffAttributes(a.Schema(), b.Schema(), oldObj, newObj, opts)
		if len(changes) > 0 {
			result.Changed = append(result.Changed, ObjectDiff{
				DN:         newObj.DN,
				ObjectGUID: guidOf(newObj),
				Attributes: changes,
			})
		}
	}

	for key, oldObj := range oldByKey {
		if _, stillPresent := newByKey[key]; !stillPresent {
			result.Removed = append(result.Removed, summarize(oldObj))
		}
	}

	return result, nil
}

func summarize(o *activedirectory.Object) ObjectSummary {
	return ObjectSummary{DN: o.DN, ObjectGUID: guidOf(o)}
}

func guidOf(o *activedirectory.Object) string {
	for _, entry := range o.Attributes.Entries() {
		for _, v := range entry.Value {
			if v.Kind == activedirectory.KindGuid {
				return v.Str
			}
		}
	}
	return ""
}

// matchKey is the identity used to pair objects across the two snapshots:
// the object's GUID when it has one, otherwise the DN. The GUID is the
// first GUID-syntax value in the object's attribute order (see guidOf);
// the attribute is not looked up by the name objectGUID.
func matchKey(o *activedirectory.Object) string {
	if g := guidOf(o); g != "" {
		return "guid:" + g
	}
	return "dn:" + o.DN
}

func indexObjects(s *snapshot.Snapshot) (map[string]*activedirectory.Object, error) {
	index := make(map[string]*activedirectory.Object)
	iter := s.Objects()
	for {
		obj, ok := iter.Next()
		if !ok {
			break
		}
		index[matchKey(obj)] = obj
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return index, nil
}

// diffAttributes compares a matched object's attributes across two
// snapshots whose schemas are independently numbered: ids from
// oldSchema/newSchema are resolved to names before comparison, since
// dense attribute ids are only stable within a single snapshot's schema
// table, not across two files.
func diffAttributes(oldSchema, newSchema *adschema.Schema, oldObj, newObj *activedirectory.Object, opts Options) []AttributeChange {
	oldByName := renderByName(oldSchema, oldObj)
	newByName := renderByName(newSchema, newObj)

	var changes []AttributeChange
	seen := make(map[string]bool)

	for name, newVals := range newByName {
		seen[name] = true
		oldVals, existed := oldByName[name]
		if !existed || !stringSlicesEqual(oldVals, newVals, opts.CaseInsensitive) {
			changes = append(changes, AttributeChange{Name: name, Old: oldVals, New: newVals})
		}
	}
	for name, oldVals := range oldByName {
		if seen[name] {
			continue
		}
		changes = append(changes, AttributeChange{Name: name, Old: oldVals, New: nil})
	}
	return changes
}

func renderByName(s *adschema.Schema, o *activedirectory.Object) map[string][]string {
	out := make(map[string][]string, o.Attributes.Len())
	for _, entry := range o.Attributes.Entries() {
		id, vals := entry.Key, entry.Value
		def, ok := s.AttributeByID(id)
		name := "attr#" + attrIDString(id)
		if ok {
			name = def.Name
		}
		out[name] = renderAll(vals)
	}
	return out
}

func attrIDString(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}

func stringSlicesEqual(a, b []string, caseInsensitive bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if caseInsensitive {
			if !strings.EqualFold(a[i], b[i]) {
				return false
			}
		} else if a[i] != b[i] {
			return false
		}
	}
	return true
}

func renderAll(vals []activedirectory.Value) []string {
	if vals == nil {
		return nil
	}
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = activedirectory.RenderValue(v)
	}
	return out
}

