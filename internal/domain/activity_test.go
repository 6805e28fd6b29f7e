package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketSet_AddKeepsCreationOrder(t *testing.T) {
	set := NewBucketSet()
	set.Add("ts", 5, 1)
	set.Add("go", 10, 2)
	set.Add("ts", 3, 0)

	buckets := set.Buckets()
	require.Len(t, buckets, 2)
	assert.Equal(t, &ExtensionBucket{Extension: "ts", Additions: 8, Deletions: 1, Changes: 9}, buckets[0])
	assert.Equal(t, &ExtensionBucket{Extension: "go", Additions: 10, Deletions: 2, Changes: 12}, buckets[1])
	assert.Equal(t, []float64{9, 12}, set.Changes())
}

func TestBucketSet_Finalize(t *testing.T) {
	testCases := []struct {
		name     string
		total    float64
		expected map[string]float64
	}{
		{name: "splits by changes", total: 100, expected: map[string]float64{"go": 75, "ts": 25}},
		{name: "zero total leaves zero", total: 0, expected: map[string]float64{"go": 0, "ts": 0}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			set := NewBucketSet()
			set.Add("go", 70, 5)
			set.Add("ts", 20, 5)
			set.Finalize(tc.total)

			for ext, pct := range tc.expected {
				b, ok := set.Get(ext)
				require.True(t, ok)
				assert.InDelta(t, pct, b.Percentage, 1e-9)
			}
		})
	}
}

func TestBucketSet_GetMissing(t *testing.T) {
	_, ok := NewBucketSet().Get("go")
	assert.False(t, ok)
	assert.Equal(t, 0, NewBucketSet().Len())
}

func TestCommitRef_String(t *testing.T) {
	assert.Equal(t, "octo/hello@abc123", CommitRef{Owner: "octo", Repo: "hello", SHA: "abc123"}.String())
}
