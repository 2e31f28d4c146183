package classfile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/incc/internal/adapters/classfile"
	"go.trai.ch/incc/internal/core/domain"
)

func refs(info *domain.DependencyInfo) []string {
	out := make([]string, 0, len(info.References))
	for _, r := range info.References {
		out = append(out, r.String())
	}
	return out
}

func TestParse_IdentityAndClassReferences(t *testing.T) {
	b := newClassBuilder()
	b.long(42)
	b.methodRef("com/acme/Util", "helper", "(Lcom/acme/Config;[Lcom/acme/Item;I)Lcom/acme/Result;")
	b.class("[Lcom/acme/Element;")
	b.class("[I")
	b.methodType("(Lcom/acme/Callback;)V")
	b.field("Lcom/acme/Field;")
	b.method("([[Lcom/acme/Param;)J")

	info, err := classfile.Parse(b.build("com/acme/Main", "java/lang/Object"))
	require.NoError(t, err)

	assert.Equal(t, "com/acme/Main", info.Identity.String())
	assert.Equal(t, []string{
		"com/acme/Callback",
		"com/acme/Config",
		"com/acme/Element",
		"com/acme/Field",
		"com/acme/Item",
		"com/acme/Main",
		"com/acme/Param",
		"com/acme/Result",
		"com/acme/Util",
		"java/lang/Object",
	}, refs(info))

	others := info.ReferencesOthers()
	assert.Len(t, others, len(info.References)-1)
	assert.NotContains(t, others, info.Identity)
}

func TestParse_MinimalClass(t *testing.T) {
	info, err := classfile.Parse(newClassBuilder().build("Leaf", "java/lang/Object"))
	require.NoError(t, err)
	assert.Equal(t, "Leaf", info.Identity.String())
	assert.Equal(t, []string{"Leaf", "java/lang/Object"}, refs(info))
}

func TestParse_Malformed(t *testing.T) {
	valid := newClassBuilder().build("A", "java/lang/Object")

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "bad magic", data: append([]byte{0xDE, 0xAD, 0xBE, 0xEF}, valid[4:]...)},
		{name: "truncated pool", data: valid[:14]},
		{name: "truncated header", data: valid[:len(valid)-8]},
		{name: "unknown tag", data: append(append([]byte{}, valid[:10]...), 0x63, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := classfile.Parse(tt.data)
			require.Error(t, err)
		})
	}
}
