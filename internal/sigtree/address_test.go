package sigtree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDepth(t *testing.T) {
	t.Parallel()

	cases := []struct {
		T       uint64
		want    uint64
		wantErr error
	}{
		{T: 3, want: 2},
		{T: 7, want: 3},
		{T: 15, want: 4},
		{T: 4, wantErr: ErrNonPowerOfTwo},
		{T: 1, wantErr: ErrInvalidMaxTimePeriod},
		{T: 0, wantErr: ErrInvalidMaxTimePeriod},
	}
	for _, c := range cases {
		l, err := Depth(c.T)
		if c.wantErr != nil {
			require.ErrorIs(t, err, c.wantErr)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, c.want, l)
	}
}

func TestPathOfRoundTrip(t *testing.T) {
	t.Parallel()

	const l = uint64(4)
	maxT := uint64(1) << l
	for tp := uint64(1); tp <= maxT; tp++ {
		p, err := PathOf(tp, l)
		require.NoError(t, err)
		require.Len(t, p, int(l))

		got, err := NodeOf(p, l)
		require.NoError(t, err)
		require.Equal(t, tp, got)
	}
}

func TestPathOfSentinel(t *testing.T) {
	t.Parallel()

	const l = uint64(3)
	p, err := PathOf(8, l) // T+1 == 2^l
	require.NoError(t, err)
	for _, s := range p {
		require.Equal(t, Right, s)
	}
}

func TestPathOfOutOfRange(t *testing.T) {
	t.Parallel()

	_, err := PathOf(0, 3)
	require.ErrorIs(t, err, ErrInvalidNodeNum)

	_, err = PathOf(9, 3)
	require.ErrorIs(t, err, ErrInvalidNodeNum)
}

func TestIntervalOf(t *testing.T) {
	t.Parallel()

	const l = uint64(3)
	lo, hi, err := IntervalOf(Path{}, l)
	require.NoError(t, err)
	require.Equal(t, uint64(1), lo)
	require.Equal(t, uint64(8), hi)

	lo, hi, err = IntervalOf(Path{Left}, l)
	require.NoError(t, err)
	require.Equal(t, uint64(1), lo)
	require.Equal(t, uint64(4), hi)

	lo, hi, err = IntervalOf(Path{Right}, l)
	require.NoError(t, err)
	require.Equal(t, uint64(5), lo)
	require.Equal(t, uint64(8), hi)

	lo, hi, err = IntervalOf(Path{Right, Left, Right}, l)
	require.NoError(t, err)
	require.Equal(t, uint64(6), lo)
	require.Equal(t, uint64(6), hi)
}

func TestIsAncestor(t *testing.T) {
	t.Parallel()

	require.True(t, IsAncestor(Path{}, Path{Left, Right}))
	require.True(t, IsAncestor(Path{Left}, Path{Left, Right}))
	require.True(t, IsAncestor(Path{Left, Right}, Path{Left, Right}))
	require.False(t, IsAncestor(Path{Right}, Path{Left, Right}))
	require.False(t, IsAncestor(Path{Left, Right}, Path{Left}))
}

func TestLCA(t *testing.T) {
	t.Parallel()

	got := LCA(Path{Left, Right, Left}, Path{Left, Right, Right})
	require.Equal(t, Path{Left, Right}, got)

	got = LCA(Path{Left, Right}, Path{Right, Left})
	require.Equal(t, Path{}, got)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Validate(Path{Left, Right}, 3))
	require.Error(t, Validate(Path{Left, Right, Left, Right}, 3))
	require.Error(t, Validate(Path{3}, 3))
}
