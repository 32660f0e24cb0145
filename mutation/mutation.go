// Package mutation defines the structured change records emitted by a
// hostdom Document. These are the contract between the document engine
// and any consumer reacting to host-tree rewrites (the overlay keeper's
// change observer, the live-page applier).
package mutation

// Op is the type of document mutation observed.
type Op string

const (
	OpInsert   Op = "insert"    // node attached (includes serialised subtree HTML)
	OpRemove   Op = "remove"    // node detached
	OpText     Op = "text"      // text content changed
	OpAttr     Op = "attr"      // attribute set or changed
	OpAttrDel  Op = "attr_del"  // attribute removed
	OpDocReset Op = "doc_reset" // entire tree replaced
)

// Record is a single document mutation.
type Record struct {
	Op       Op     `json:"op"`
	Path     string `json:"path"`                // slash path of the node, e.g. /html/body/div[2]
	Tag      string `json:"tag,omitempty"`
	Name     string `json:"name,omitempty"`      // attribute name for attr/attr_del
	Value    string `json:"value,omitempty"`     // new value
	OldValue string `json:"old_value,omitempty"` // previous value
	HTML     string `json:"html,omitempty"`      // serialised subtree for insert
}

// Batch is the unit handed to a consumer: all records collected during one
// debounce window, compressed.
type Batch struct {
	ID        string   `json:"id"`  // UUIDv7
	Seq       uint64   `json:"seq"` // monotonically increasing per document
	Records   []Record `json:"records"`
	Timestamp int64    `json:"timestamp"` // epoch milliseconds at flush
}

// Compress folds bursts of equivalent records:
//   - consecutive attr on the same (path, name) keep the last value and the
//     first old value
//   - consecutive text on the same path likewise
//   - insert/remove/attr_del/doc_reset are structurally significant and are
//     never compressed
func Compress(records []Record) []Record {
	if len(records) <= 1 {
		return records
	}

	result := make([]Record, 0, len(records))

	for i := 0; i < len(records); i++ {
		rec := records[i]

		switch rec.Op {
		case OpAttr:
			firstOld := rec.OldValue
			j := i + 1
			for j < len(records) &&
				records[j].Op == OpAttr &&
				records[j].Path == rec.Path &&
				records[j].Name == rec.Name {
				rec = records[j]
				j++
			}
			rec.OldValue = firstOld
			result = append(result, rec)
			i = j - 1

		case OpText:
			firstOld := rec.OldValue
			j := i + 1
			for j < len(records) &&
				records[j].Op == OpText &&
				records[j].Path == rec.Path {
				rec = records[j]
				j++
			}
			rec.OldValue = firstOld
			result = append(result, rec)
			i = j - 1

		default:
			result = append(result, rec)
		}
	}

	return result
}
