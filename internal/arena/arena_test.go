package arena

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testKey int

type testKeyIndexer struct{}

func (testKeyIndexer) FromIndex(i int) testKey { return testKey(i) }
func (testKeyIndexer) ToIndex(k testKey) int   { return int(k) }

func TestArenaPushGet(t *testing.T) {
	a := NewArena[testKey, string](testKeyIndexer{})
	k0 := a.Push("zero")
	k1 := a.Push("one")
	require.Equal(t, "zero", a.Get(k0))
	require.Equal(t, "one", a.Get(k1))
	require.Equal(t, 2, a.Len())
}

func TestDedupArenaReturnsExistingKey(t *testing.T) {
	d := NewDedupArena[testKey, string](testKeyIndexer{})
	k0 := d.Push("same")
	k1 := d.Push("same")
	k2 := d.Push("different")
	require.Equal(t, k0, k1)
	require.NotEqual(t, k0, k2)
	require.Equal(t, 2, d.Len())
}

func TestComponentVecHolesAndGrowth(t *testing.T) {
	c := NewComponentVec[testKey, int](testKeyIndexer{})
	_, ok := c.Get(testKey(5))
	require.False(t, ok)

	c.Set(testKey(5), 42)
	v, ok := c.Get(testKey(5))
	require.True(t, ok)
	require.Equal(t, 42, v)

	_, ok = c.Get(testKey(2))
	require.False(t, ok)

	c.Unset(testKey(5))
	_, ok = c.Get(testKey(5))
	require.False(t, ok)
}

func TestStringInternerLengthFirstOrder(t *testing.T) {
	si := NewStringInterner()
	symLong := si.Intern("aaaa")
	symShort := si.Intern("b")
	symSame := si.Intern("aaaa")

	require.Equal(t, symLong, symSame)
	require.NotEqual(t, symLong, symShort)
	require.Equal(t, "aaaa", si.String(symLong))
	require.Equal(t, "b", si.String(symShort))

	_, ok := si.Lookup("absent")
	require.False(t, ok)
	sym, ok := si.Lookup("b")
	require.True(t, ok)
	require.Equal(t, symShort, sym)
}

func TestConstPoolDedup(t *testing.T) {
	p := NewConstPool()
	s0 := p.Intern(0xDEADBEEF)
	s1 := p.Intern(0xDEADBEEF)
	s2 := p.Intern(12345)
	require.Equal(t, s0, s1)
	require.NotEqual(t, s0, s2)
	require.Equal(t, uint64(0xDEADBEEF), p.Value(s0))
	require.Equal(t, 2, p.Len())
}
