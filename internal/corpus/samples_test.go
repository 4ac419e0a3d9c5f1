package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleSample(t *testing.T) {
	samples := SplitSamples("a.txt", []byte("x\ny\n"), "###")
	require.Len(t, samples, 1)
	assert.Equal(t, "a.txt", samples[0].Name())
	assert.Equal(t, "x\ny\n", samples[0].Text())
	assert.Equal(t, 1, samples[0].FirstLine)
	assert.Equal(t, 2, samples[0].LastLine)

	samples = SplitSamples("e.txt", nil, "###")
	require.Len(t, samples, 1)
	assert.Equal(t, 1, samples[0].LastLine)

	samples = SplitSamples("n.txt", []byte("### x\ny\n"), "")
	require.Len(t, samples, 1)
}

func TestMultipleSamples(t *testing.T) {
	content := "### first\nfoo\nbar\n\n###second\n### third\nbaz"
	samples := SplitSamples("m.txt", []byte(content), "###")
	require.Len(t, samples, 3)

	assert.Equal(t, "m.txt#1", samples[0].Name())
	assert.Equal(t, "foo\nbar\n", samples[0].Text())
	assert.Equal(t, 2, samples[0].FirstLine)
	assert.Equal(t, 4, samples[0].LastLine)

	assert.Equal(t, "", samples[1].Text())
	assert.Equal(t, "m.txt#2", samples[1].Name())

	assert.Equal(t, "baz", samples[2].Text())
	assert.Equal(t, 7, samples[2].FirstLine)
	assert.Equal(t, 7, samples[2].LastLine)
}

func TestSeparatorPrefix(t *testing.T) {
	samples := SplitSamples("s.txt", []byte("--- sep\na\n-- not a separator\n---\nb\n"), "---")
	require.Len(t, samples, 2)
	assert.Equal(t, "a\n-- not a separator", samples[0].Text())
	assert.Equal(t, "b\n", samples[1].Text())
}

func TestDiff(t *testing.T) {
	assert.Equal(t, "", Diff("a\nb\n", "a\nb\n"))
	diff := Diff("a\nc\n", "a\nb\n")
	assert.Contains(t, diff, "--- want")
	assert.Contains(t, diff, "+++ got")
	assert.Contains(t, diff, "-b\n")
	assert.Contains(t, diff, "+c\n")
}
