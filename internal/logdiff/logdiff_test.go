package logdiff

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

func TestDiff_Equal(t *testing.T) {
	a := []string{"totalReads: 100", "totalWrites: 50"}
	b := []string{"totalReads: 100", "totalWrites: 50"}

	result := Diff(a, b, "filecfg", "plusargs")
	assert.True(t, result.Equal())
	assert.Equal(t, -1, result.Index)
	assert.Empty(t, result.Listing)
	assert.Equal(t, "filecfg and plusargs match", result.Report())
}

func TestDiff_EmptyRegionsEqual(t *testing.T) {
	result := Diff([]string{}, []string{}, "a", "b")
	assert.True(t, result.Equal())
}

func TestDiff_FirstDivergence(t *testing.T) {
	a := []string{"totalReads: 100", "totalWrites: 50", "tail"}
	b := []string{"totalReads: 100", "totalWrites: 51", "tail"}

	result := Diff(a, b, "filecfg", "plusargs")
	assert.False(t, result.Equal())
	assert.Equal(t, 1, result.Index)
	assert.Equal(t, "totalWrites: 50", result.LineA)
	assert.Equal(t, "totalWrites: 51", result.LineB)
	assert.Equal(t, "filecfg", result.LabelA)
	assert.Equal(t, "plusargs", result.LabelB)
}

func TestDiff_ShorterLeft(t *testing.T) {
	a := []string{"totalReads: 100"}
	b := []string{"totalReads: 100", "totalWrites: 50"}

	result := Diff(a, b, "a", "b")
	assert.False(t, result.Equal())
	assert.Equal(t, 1, result.Index)
	assert.Equal(t, Missing, result.LineA)
	assert.Equal(t, "totalWrites: 50", result.LineB)
}

func TestDiff_ShorterRight(t *testing.T) {
	a := []string{"totalReads: 100", "totalWrites: 50"}
	b := []string{"totalReads: 100"}

	result := Diff(a, b, "a", "b")
	assert.False(t, result.Equal())
	assert.Equal(t, 1, result.Index)
	assert.Equal(t, "totalWrites: 50", result.LineA)
	assert.Equal(t, Missing, result.LineB)
}

func TestDiff_NoNormalization(t *testing.T) {
	result := Diff([]string{"totalReads: 100 "}, []string{"totalReads: 100"}, "a", "b")
	assert.False(t, result.Equal(), "trailing whitespace is a divergence")

	result = Diff([]string{"TOTALREADS: 100"}, []string{"totalReads: 100"}, "a", "b")
	assert.False(t, result.Equal(), "case differences are a divergence")
}

func TestDiff_ListingCoversBothRegions(t *testing.T) {
	a := []string{"totalReads: 100", "totalWrites: 50"}
	b := []string{"totalReads: 100", "totalWrites: 51"}

	result := Diff(a, b, "a", "b")
	assert.NotEmpty(t, result.Listing)
	assert.Contains(t, result.Listing, "totalWrites: 50")
	assert.Contains(t, result.Listing, "totalWrites: 51")
}

func TestReport_DivergeMidway(t *testing.T) {
	a := []string{"totalReads: 100", "totalWrites: 50"}
	b := []string{"totalReads: 100", "totalWrites: 51"}

	result := Diff(a, b, "filecfg.log", "plusargs.log")

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "diverge-midway", []byte(result.Report()))
}

func TestReport_MissingLine(t *testing.T) {
	a := []string{"totalReads: 100"}
	b := []string{"totalReads: 100", "totalWrites: 50"}

	result := Diff(a, b, "filecfg.log", "plusargs.log")

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "missing-line", []byte(result.Report()))
}
