package lir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loomc/src/name"
)

func TestTempsOf_CollectsEachTempOnce(t *testing.T) {
	in := name.NewInterner()
	a := in.New("a")
	b := in.New("b")

	proc := Proc{
		Name: in.New("f"),
		Body: []Stm{
			{Kind: SMove, Dst: a, Src: IntLit(1, Type{Kind: I32})},
			{Kind: SBinary, Dst: b, BOp: Add_i32, Left: Temp(a, Type{Kind: I32}), Right: IntLit(1, Type{Kind: I32})},
			{Kind: SRet, Val: ref(Temp(b, Type{Kind: I32}))},
		},
	}

	temps, err := TempsOf(proc)
	require.NoError(t, err)
	require.Len(t, temps, 2)
	assert.True(t, temps[0].Name.Equal(a))
	assert.Equal(t, I32, temps[0].Type.Kind)
	assert.True(t, temps[1].Name.Equal(b))
}

func TestTempsOf_RejectsInconsistentType(t *testing.T) {
	in := name.NewInterner()
	a := in.New("a")

	proc := Proc{
		Name: in.New("f"),
		Body: []Stm{
			{Kind: SMove, Dst: a, Src: IntLit(1, Type{Kind: I32})},
			{Kind: SMove, Dst: a, Src: FloatLit(1, Type{Kind: F64})},
		},
	}

	_, err := TempsOf(proc)
	assert.Error(t, err)
}

func TestTempsOf_ExcludesParams(t *testing.T) {
	in := name.NewInterner()
	p := in.New("p")

	proc := Proc{
		Name:   in.New("f"),
		Params: []name.Name{p},
		Body: []Stm{
			{Kind: SRet, Val: ref(Temp(p, Type{Kind: I32}))},
		},
	}

	temps, err := TempsOf(proc)
	require.NoError(t, err)
	assert.Len(t, temps, 0)
}

func TestBopString_RendersDottedName(t *testing.T) {
	assert.Equal(t, "add.i32", Add_i32.String())
	assert.Equal(t, "rotl.i32", Rotl_i32.String())
}

func TestIsTerminator(t *testing.T) {
	assert.True(t, IsTerminator(Stm{Kind: SJump}))
	assert.True(t, IsTerminator(Stm{Kind: SRet}))
	assert.False(t, IsTerminator(Stm{Kind: SMove}))
}

func ref(e Exp) *Exp { return &e }
