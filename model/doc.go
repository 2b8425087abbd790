// Package model defines the Member and Team entities, the sparse member
// search condition and the flattened member/team projection returned by
// searches.
package model
