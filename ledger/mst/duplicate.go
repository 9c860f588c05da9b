package mst

// DuplicatePolicy is the template-method hook (§9 "Template-method hook
// for duplicate policy") invoked by every Set when it reaches the
// target leaf slot. It receives the id, the existing value (nil if the
// id was never populated), and the proposed new value.
//
// Returning (value, true, nil) stores value; (nil, false, nil) leaves
// the existing value untouched and treats the Set as a successful
// no-op; any non-nil error aborts the Set and leaves the tree
// unchanged.
type DuplicatePolicy func(id int64, existing, proposed []byte) (value []byte, write bool, err error)

// RejectDuplicates is the default policy (§4.1 item 3, §9): a second
// write to an already-populated id is an error. A never-populated id
// always accepts the proposed value.
func RejectDuplicates(_ int64, existing, proposed []byte) ([]byte, bool, error) {
	if existing != nil {
		return nil, false, ErrDuplicateID
	}
	return proposed, true, nil
}

// OverwriteDuplicates is a convenience policy for callers (typically a
// higher-level versioned dataset, out of scope here, see §9) that want
// plain last-write-wins semantics instead of the reject default.
func OverwriteDuplicates(_ int64, _, proposed []byte) ([]byte, bool, error) {
	return proposed, true, nil
}
