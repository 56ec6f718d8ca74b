package textfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyRespectsRating(t *testing.T) {
	input := "Damn, the door is stuck."

	assert.Equal(t, input, Apply(input, "R"))
	assert.Equal(t, input, Apply(input, "M"))
	assert.Equal(t, input, Apply(input, "adult"))
	assert.Equal(t, "Dang, the door is stuck.", Apply(input, "G"))
	assert.Equal(t, "Dang, the door is stuck.", Apply(input, "PG13"))
	assert.Equal(t, "Dang, the door is stuck.", Apply(input, ""))
}

func TestSoftenPreservesCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "damn it all", want: "dang it all"},
		{input: "DAMN it all", want: "DANG it all"},
		{input: "Damn it all", want: "Dang it all"},
		{input: "what the hell", want: "what the heck"},
		{input: "HELL of a night", want: "HECK of a night"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Soften(tt.input))
		})
	}
}

func TestSoftenMatchesWholeWordsOnly(t *testing.T) {
	assert.Equal(t, "The hellion passed the shitake stall.", Soften("The hellion passed the shitake stall."))
	assert.Equal(t, "A classic brass assembly.", Soften("A classic brass assembly."))
}

func TestSoftenLeavesCleanTextAlone(t *testing.T) {
	input := "The lamp flickers in the draft."
	assert.Equal(t, input, Soften(input))
}
