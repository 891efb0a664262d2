// Package respond composes the outbound reply for one message, either from
// the intent template table or from the generative backend.
package respond

import "github.com/babelbotio/babelbot/internal/intent"

// Branch names the response path for one request.
type Branch int

const (
	// BranchTemplate serves a canned response for a confidently resolved
	// intent.
	BranchTemplate Branch = iota
	// BranchGenerative asks the generative backend.
	BranchGenerative
)

// Decide picks the branch for a request. It is a pure function of the
// prediction, the confidence threshold, and the number of templates
// registered for the predicted tag: below-threshold predictions are
// treated as unresolved even when templates exist, and resolved tags
// without templates fall through to the generative branch.
func Decide(pred intent.Prediction, threshold float64, templateCount int) Branch {
	if pred.Resolved() && pred.Confidence >= threshold && templateCount > 0 {
		return BranchTemplate
	}
	return BranchGenerative
}
