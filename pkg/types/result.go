// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the keyword-search tool.
// See docs/ARCHITECTURE § Data Structures.
package types

import "time"

// ResultStatus distinguishes successful lookups from failed ones.
type ResultStatus string

const (
	StatusSuccess ResultStatus = "success"
	StatusFailed  ResultStatus = "failed"
)

// FailureReason records why a keyword lookup failed after the runner gave
// up on it.
type FailureReason string

const (
	ReasonNone      FailureReason = ""
	ReasonNetwork   FailureReason = "network"
	ReasonTimeout   FailureReason = "timeout"
	ReasonNoResults FailureReason = "no_results"

	// ReasonQuota names quota exhaustion. The runner aborts on quota
	// errors without recording a result, so it never sets this itself.
	ReasonQuota FailureReason = "quota"
)

// SearchResult is the outcome of processing one keyword. Exactly one is
// produced per completed keyword, in input order, and it is never mutated
// after creation.
type SearchResult struct {
	// Keyword is the query string this result answers.
	Keyword string `json:"keyword" yaml:"keyword"`

	// Title, URL and Snippet come from the first item the API returned.
	// All three are empty when Status is StatusFailed.
	Title   string `json:"title" yaml:"title"`
	URL     string `json:"url" yaml:"url"`
	Snippet string `json:"snippet" yaml:"snippet"`

	// Timestamp is when the lookup for this keyword finished.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// Status reports whether the lookup succeeded.
	Status ResultStatus `json:"status" yaml:"status"`

	// Reason is set when Status is StatusFailed.
	Reason FailureReason `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Succeeded reports whether the lookup produced a usable result.
func (r SearchResult) Succeeded() bool {
	return r.Status == StatusSuccess
}
