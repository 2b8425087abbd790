// Package search executes member searches: it composes the optional search
// criteria into a filter, fetches one page of the member/team projection and
// resolves the total, skipping the count query when the page proves it.
package search
