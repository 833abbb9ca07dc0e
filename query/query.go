// Package query orchestrates SnapshotReader iteration, filter evaluation,
// and projection into the QueryEngine surface spec'd for CLI/REPL
// collaborators.
package query

import (
	"strings"
	"time"

	ad "adxquery/activedirectory"
	"adxquery/filter"
	"adxquery/orderedmap"
	"adxquery/snapshot"
)

// ProjectedObject is a matched object's DN plus its rendered attribute
// values, restricted to the requested projection (or all attributes, if
// none was requested).
type ProjectedObject struct {
	DN         string
	Attributes *orderedmap.Map[string, []string] // attribute display name -> rendered values, in object order
}

// Stats carries the counters a query accumulates while scanning.
type Stats struct {
	ObjectsScanned int
	ObjectsMatched int
	DecodeErrors   int
	Elapsed        time.Duration
}

// Options configures one Run call.
type Options struct {
	Projection      []string // attribute display names; nil means "all"
	Limit           int      // 0 means unlimited
	CaseInsensitive bool
	CollectStats    bool
}

// Engine ties a Snapshot to filter parsing/evaluation for repeated
// queries against the same loaded file.
type Engine struct {
	snap *snapshot.Snapshot
}

// New builds a query Engine over an already-open Snapshot.
func New(snap *snapshot.Snapshot) *Engine {
	return &Engine{snap: snap}
}

// Run parses filterText once, then evaluates objects one at a time as the
// snapshot iterator yields them and returns the matching, projected
// objects as one slice once iteration stops, with (optionally) final
// stats; results are not handed out lazily. Limit is applied after a match, not
// before — iteration halts once the limit is reached, not before
// evaluating candidates. Results preserve snapshot file order.
func (e *Engine) Run(filterText string, opts Options) ([]ProjectedObject, *Stats, error) {
	node, err := filter.Parse(filterText)
	if err != nil {
		return nil, nil, err
	}

	evaluator := filter.NewEvaluator(e.snap.Schema(), opts.CaseInsensitive)
	iter := e.snap.Objects()

	start := time.Now()
	var results []ProjectedObject
	stats := &Stats{}

	for {
		obj, ok := iter.Next()
		if !ok {
			break
		}
		stats.ObjectsScanned++

		if evaluator.Evaluate(node, obj) != filter.True {
			continue
		}
		stats.ObjectsMatched++
		results = append(results, e.project(obj, opts.Projection))

		if opts.Limit > 0 && len(results) >= opts.Limit {
			break
		}
	}

	stats.DecodeErrors = iter.DecodeErrors()
	stats.Elapsed = time.Since(start)

	if err := iter.Err(); err != nil {
		return results, stats, err
	}

	if !opts.CollectStats {
		return results, nil, nil
	}
	return results, stats, nil
}

func (e *Engine) project(obj *ad.Object, projection []string) ProjectedObject {
	out := ProjectedObject{DN: obj.DN, Attributes: orderedmap.New[string, []string]()}

	var wanted map[string]bool
	if projection != nil {
		wanted = make(map[string]bool, len(projection))
		for _, p := range projection {
			wanted[strings.ToLower(p)] = true
		}
	}

	for _, entry := range obj.Attributes.Entries() {
		def, ok := e.snap.Schema().AttributeByID(entry.Key)
		if !ok {
			continue
		}
		if wanted != nil && !wanted[strings.ToLower(def.Name)] {
			continue
		}
		vals := entry.Value
		rendered := make([]string, len(vals))
		for i, v := range vals {
			rendered[i] = ad.RenderValue(v)
		}
		out.Attributes.Set(def.Name, rendered)
	}
	return out
}
