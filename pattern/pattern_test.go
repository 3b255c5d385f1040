package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		pattern   string
		segments  []string
		startsAny bool
		endsAny   bool
		minLen    int
	}{
		{name: "empty", pattern: "", segments: nil},
		{name: "single percent", pattern: "%", segments: nil, startsAny: true, endsAny: true},
		{name: "double percent", pattern: "%%", segments: nil, startsAny: true, endsAny: true},
		{name: "literal", pattern: "admin", segments: []string{"admin"}, minLen: 5},
		{name: "prefix", pattern: "admin%", segments: []string{"admin"}, endsAny: true, minLen: 5},
		{name: "suffix", pattern: "%admin", segments: []string{"admin"}, startsAny: true, minLen: 5},
		{name: "contains", pattern: "%admin%", segments: []string{"admin"}, startsAny: true, endsAny: true, minLen: 5},
		{name: "two segments", pattern: "a%b", segments: []string{"a", "b"}, minLen: 2},
		{name: "empty segments dropped", pattern: "a%%%b", segments: []string{"a", "b"}, minLen: 2},
		{name: "three segments bracketed", pattern: "%a%b%c%", segments: []string{"a", "b", "c"}, startsAny: true, endsAny: true, minLen: 3},
		{name: "underscores kept in segment", pattern: "user_1%3", segments: []string{"user_1", "3"}, minLen: 7},
		{name: "only underscores", pattern: "___", segments: []string{"___"}, minLen: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Parse([]byte(tt.pattern))

			var got []string
			for _, seg := range p.Segments {
				got = append(got, string(seg.Text))
			}
			assert.Equal(t, tt.segments, got)
			assert.Equal(t, tt.startsAny, p.StartsAny)
			assert.Equal(t, tt.endsAny, p.EndsAny)
			assert.Equal(t, tt.minLen, p.MinLen)
		})
	}
}

func TestParseWildcardCount(t *testing.T) {
	p := Parse([]byte("_a_b%__"))

	assert.Len(t, p.Segments, 2)
	assert.Equal(t, 2, p.Segments[0].Wildcards)
	assert.False(t, p.Segments[0].AllWildcards())
	assert.Equal(t, 2, p.Segments[1].Wildcards)
	assert.True(t, p.Segments[1].AllWildcards())
}

func TestKind(t *testing.T) {
	tests := []struct {
		pattern string
		kind    Kind
	}{
		{"", KindEmpty},
		{"%", KindAll},
		{"%%%", KindAll},
		{"admin", KindExact},
		{"admin%", KindPrefix},
		{"%admin", KindSuffix},
		{"%admin%", KindContains},
		{"a%b", KindMulti},
		{"%a%b%c%", KindMulti},
		{"_", KindExact},
		{"_%", KindPrefix},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.kind, Parse([]byte(tt.pattern)).Kind())
		})
	}
}

func TestParseOwnsSegmentBytes(t *testing.T) {
	input := []byte("abc%def")
	p := Parse(input)

	input[0] = 'z'
	assert.Equal(t, "abc", string(p.Segments[0].Text))
}
