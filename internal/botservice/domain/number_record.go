package domain

import "time"

// CallerIdentity is the cached result of a CNAM lookup for a number.
type CallerIdentity struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// HasFullName reports whether both name parts are present. Only a full name
// is usable for the personalized greeting.
func (ci CallerIdentity) HasFullName() bool {
	return ci.FirstName != "" && ci.LastName != ""
}

// NumberRecord is the persisted per-phone-number state: the identity cache,
// the one-time coupon flag and bookkeeping timestamps.
//
// Invariants maintained by the repository:
//   - CreatedAt is set on first write and never changes.
//   - UpdatedAt is stamped on every write; UpdatedAt >= CreatedAt.
//   - CouponIssued only transitions false -> true, never back.
//   - Identity, once populated, survives later writes that lack identity data.
type NumberRecord struct {
	Number       string          `json:"number"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Identity     *CallerIdentity `json:"identity,omitempty"`
	CouponIssued bool            `json:"coupon_issued"`
	// Extra carries forward-compatible fields merged in without schema
	// enforcement. Merges are additive per key.
	Extra map[string]any `json:"extra,omitempty"`
}

// RecordPatch is a partial update applied to a NumberRecord. Absent fields
// (nil Identity, false CouponIssued, nil Extra) leave the stored value
// untouched; the merge never removes existing data.
type RecordPatch struct {
	Identity     *CallerIdentity
	CouponIssued bool
	Extra        map[string]any
}
