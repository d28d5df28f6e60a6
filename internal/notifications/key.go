// Package notifications provides the in-process event bus, subscription
// filtering and real-time delivery for comment events.
package notifications

import "redline/internal/models"

// FilterKey scopes live delivery to a (report, thread) pair. AnsweredTo is nil
// for the top-level stream and set to a parent comment's id for a reply
// stream. Keys are compared by value; construct them through NewFilterKey so
// the two wire encodings of "no parent" (absent field and explicit zero id)
// collapse into the same representation before any comparison happens.
type FilterKey struct {
	ReportID   uint
	AnsweredTo *uint
}

// NewFilterKey builds a normalized key. A nil or zero answeredTo both mean
// "top-level thread".
func NewFilterKey(reportID uint, answeredTo *uint) FilterKey {
	if answeredTo != nil && *answeredTo == 0 {
		answeredTo = nil
	}
	return FilterKey{ReportID: reportID, AnsweredTo: answeredTo}
}

// KeyForComment derives the routing key a comment event is tagged with.
func KeyForComment(c models.Comment) FilterKey {
	return NewFilterKey(c.ReportID, c.AnsweredTo)
}

// Matches reports whether an event tagged with eventKey should be delivered
// to a subscriber registered with subKey. Pure and O(1). Absent parents on
// either side compare equal without dereferencing the absent value.
func Matches(eventKey, subKey FilterKey) bool {
	if eventKey.ReportID != subKey.ReportID {
		return false
	}
	if eventKey.AnsweredTo == nil || subKey.AnsweredTo == nil {
		return eventKey.AnsweredTo == nil && subKey.AnsweredTo == nil
	}
	return *eventKey.AnsweredTo == *subKey.AnsweredTo
}
