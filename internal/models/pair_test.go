package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalPairSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"a1", "b2"},
		{"b2", "a1"},
		{"507f1f77bcf86cd799439011", "507f1f77bcf86cd799439012"},
		{"zzz", "aaa"},
		{"user-1", "user-10"},
	}

	for _, p := range pairs {
		low1, high1, err := CanonicalPair(p[0], p[1])
		require.NoError(t, err)
		low2, high2, err := CanonicalPair(p[1], p[0])
		require.NoError(t, err)

		require.Equal(t, low1, low2)
		require.Equal(t, high1, high2)
		require.Less(t, low1, high1)
	}
}

func TestCanonicalPairSelf(t *testing.T) {
	_, _, err := CanonicalPair("a1", "a1")
	require.ErrorIs(t, err, ErrSelfRelationship)
}

func TestCanonicalPairTransitive(t *testing.T) {
	// Byte-wise string order must be total regardless of how ids were
	// generated (monotonic, random, mixed length).
	ids := []string{"a", "ab", "b", "0", "Z", "z9", "user_3"}
	for _, a := range ids {
		for _, b := range ids {
			for _, c := range ids {
				if a == b || b == c || a == c {
					continue
				}
				lowAB, _, err := CanonicalPair(a, b)
				require.NoError(t, err)
				lowBC, _, err := CanonicalPair(b, c)
				require.NoError(t, err)
				lowAC, _, err := CanonicalPair(a, c)
				require.NoError(t, err)

				if lowAB == a && lowBC == b {
					require.Equal(t, a, lowAC)
				}
			}
		}
	}
}

func TestValidUserID(t *testing.T) {
	require.True(t, ValidUserID("a1"))
	require.True(t, ValidUserID("507f1f77bcf86cd799439011"))
	require.True(t, ValidUserID("user_1-x"))

	require.False(t, ValidUserID(""))
	require.False(t, ValidUserID("has space"))
	require.False(t, ValidUserID("emoji😀"))
	require.False(t, ValidUserID(string(make([]byte, 65))))
}
