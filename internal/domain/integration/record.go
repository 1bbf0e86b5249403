package integration

import (
	"encoding/json"
	"strconv"
)

// Record is one raw catalog record as exported by the platform: a single
// decoded NDJSON line or one entry of a REST page. No schema is enforced
// here; mapping the record into destination entities is the product
// syncer's job.
type Record map[string]any

// ID returns the record's "id" field for logging and error attribution.
// GraphQL exports carry string gids, REST pages carry numeric ids; both are
// returned as strings. Returns empty string when the field is missing.
func (r Record) ID() string {
	switch id := r["id"].(type) {
	case string:
		return id
	case json.Number:
		return id.String()
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return ""
	}
}

// ---------------------------------------------------------------------------
// Pagination
// ---------------------------------------------------------------------------

// ProductPage is one page of the remote catalog. NextCursor is an opaque
// token meaningful only to the accessor that issued it.
type ProductPage struct {
	Products   []Record
	HasNext    bool
	NextCursor string
	PrevCursor string
}
