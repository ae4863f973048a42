package difftypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeSignature_Equal(t *testing.T) {
	a := TypeSignature{BaseName: "int", ArrayDims: 1}
	b := TypeSignature{BaseName: "int", ArrayDims: 1}
	c := TypeSignature{BaseName: "int", ArrayDims: 2}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestTypeSignature_Similarity_SameFamily(t *testing.T) {
	a := TypeSignature{BaseName: "int32"}
	b := TypeSignature{BaseName: "int64"}
	sim := a.Similarity(b)

	assert.Greater(t, sim, 0.0)
	assert.Less(t, sim, 1.0)
}

func TestTypeSignature_Similarity_Identical(t *testing.T) {
	a := TypeSignature{BaseName: "string"}
	assert.Equal(t, 1.0, a.Similarity(a))
}

func TestTypeSignature_Similarity_Unrelated(t *testing.T) {
	a := TypeSignature{BaseName: "string"}
	b := TypeSignature{BaseName: "widget"}
	assert.Less(t, a.Similarity(b), 0.5)
}

func TestEnhancedFunctionSignature_Hashes(t *testing.T) {
	sig := EnhancedFunctionSignature{
		Name: "Compute",
		Parameters: []Parameter{
			{Name: "a", Type: TypeSignature{BaseName: "int"}},
		},
		ReturnType: TypeSignature{BaseName: "int"},
	}
	renamed := sig
	renamed.Name = "compute"

	assert.NotEqual(t, sig.ExactHash(), "")
	assert.Equal(t, sig.NormalizedHash(), renamed.NormalizedHash(),
		"normalized hash should be case-insensitive to renames")
	assert.NotEqual(t, sig.ExactHash(), renamed.ExactHash(),
		"exact hash is name-sensitive")
}
