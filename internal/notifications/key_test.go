package notifications

import (
	"testing"

	"redline/internal/models"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

func TestNewFilterKey_NormalizesZeroParent(t *testing.T) {
	key := NewFilterKey(7, uintPtr(0))
	assert.Nil(t, key.AnsweredTo)

	key = NewFilterKey(7, nil)
	assert.Nil(t, key.AnsweredTo)

	key = NewFilterKey(7, uintPtr(3))
	assert.NotNil(t, key.AnsweredTo)
	assert.Equal(t, uint(3), *key.AnsweredTo)
}

func TestKeyForComment(t *testing.T) {
	top := models.Comment{ID: 1, ReportID: 9}
	key := KeyForComment(top)
	assert.Equal(t, uint(9), key.ReportID)
	assert.Nil(t, key.AnsweredTo)

	reply := models.Comment{ID: 2, ReportID: 9, AnsweredTo: uintPtr(1)}
	key = KeyForComment(reply)
	assert.Equal(t, uint(9), key.ReportID)
	assert.Equal(t, uint(1), *key.AnsweredTo)
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name  string
		event FilterKey
		sub   FilterKey
		want  bool
	}{
		{
			name:  "same report top level",
			event: NewFilterKey(1, nil),
			sub:   NewFilterKey(1, nil),
			want:  true,
		},
		{
			name:  "same report same parent",
			event: NewFilterKey(1, uintPtr(5)),
			sub:   NewFilterKey(1, uintPtr(5)),
			want:  true,
		},
		{
			name:  "different report",
			event: NewFilterKey(2, nil),
			sub:   NewFilterKey(1, nil),
			want:  false,
		},
		{
			name:  "top level event vs reply subscriber",
			event: NewFilterKey(1, nil),
			sub:   NewFilterKey(1, uintPtr(5)),
			want:  false,
		},
		{
			name:  "reply event vs top level subscriber",
			event: NewFilterKey(1, uintPtr(5)),
			sub:   NewFilterKey(1, nil),
			want:  false,
		},
		{
			name:  "different parents",
			event: NewFilterKey(1, uintPtr(5)),
			sub:   NewFilterKey(1, uintPtr(6)),
			want:  false,
		},
		{
			name:  "zero parent collapses to top level",
			event: NewFilterKey(1, uintPtr(0)),
			sub:   NewFilterKey(1, nil),
			want:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.event, tt.sub))
			// Matching is symmetric in the same-shape representation.
			assert.Equal(t, tt.want, Matches(tt.sub, tt.event))
		})
	}
}

func TestMatches_DistinctPointersSameValue(t *testing.T) {
	// Equality is by value, never by pointer identity.
	a := uintPtr(42)
	b := uintPtr(42)
	assert.True(t, Matches(NewFilterKey(1, a), NewFilterKey(1, b)))
}
