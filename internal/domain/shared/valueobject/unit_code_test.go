package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnitCode(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		want        UnitCode
		wantErr     bool
		errContains string
	}{
		{name: "upper case", raw: "KG", want: "KG"},
		{name: "normalizes case", raw: "kg", want: "KG"},
		{name: "trims whitespace", raw: "  ctn\t", want: "CTN"},
		{name: "allows punctuation", raw: "m2-roll", want: "M2-ROLL"},
		{name: "empty", raw: "", wantErr: true, errContains: "empty"},
		{name: "whitespace only", raw: "   ", wantErr: true, errContains: "empty"},
		{name: "inner whitespace", raw: "K G", wantErr: true, errContains: "whitespace"},
		{name: "too long", raw: "ABCDEFGHIJKLMNOPQRSTU", wantErr: true, errContains: "exceed"},
		{name: "max length", raw: "ABCDEFGHIJKLMNOPQRST", want: "ABCDEFGHIJKLMNOPQRST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewUnitCode(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMustNewUnitCode_Panics(t *testing.T) {
	assert.Panics(t, func() { MustNewUnitCode("") })
	assert.NotPanics(t, func() { MustNewUnitCode("EA") })
}

func TestUnitCode_Matches(t *testing.T) {
	assert.True(t, UnitCodeKG.Matches(" kg "))
	assert.False(t, UnitCodeKG.Matches("g"))
}

func TestUnitCode_JSON(t *testing.T) {
	type payload struct {
		Unit UnitCode `json:"unit"`
	}

	t.Run("round trip normalizes", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"unit":" box "}`), &p))
		assert.Equal(t, UnitCodeBOX, p.Unit)

		data, err := json.Marshal(p)
		require.NoError(t, err)
		assert.JSONEq(t, `{"unit":"BOX"}`, string(data))
	})

	t.Run("empty decodes to zero", func(t *testing.T) {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"unit":""}`), &p))
		assert.True(t, p.Unit.IsZero())
	})

	t.Run("invalid code rejected", func(t *testing.T) {
		var p payload
		assert.Error(t, json.Unmarshal([]byte(`{"unit":"A B"}`), &p))
	})
}

func TestUnitCode_Scan(t *testing.T) {
	var c UnitCode
	require.NoError(t, c.Scan("ml"))
	assert.Equal(t, UnitCodeML, c)

	require.NoError(t, c.Scan([]byte("l")))
	assert.Equal(t, UnitCodeL, c)

	require.NoError(t, c.Scan(nil))
	assert.True(t, c.IsZero())

	assert.Error(t, c.Scan(42))

	v, err := UnitCodeEA.Value()
	require.NoError(t, err)
	assert.Equal(t, "EA", v)
}
