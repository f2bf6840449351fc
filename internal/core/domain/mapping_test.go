package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnMapping_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mapping ColumnMapping
		wantErr bool
	}{
		{
			name:    "valid one-to-one",
			mapping: ColumnMapping{"frame": "image", "results": "annotations"},
			wantErr: false,
		},
		{
			name:    "empty mapping",
			mapping: ColumnMapping{},
			wantErr: true,
		},
		{
			name:    "duplicate remote field",
			mapping: ColumnMapping{"a": "image", "b": "image"},
			wantErr: true,
		},
		{
			name:    "empty remote field",
			mapping: ColumnMapping{"a": ""},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mapping.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestColumnMapping_LocalFor(t *testing.T) {
	m := ColumnMapping{"frame": "image", "results": "annotations"}

	local, ok := m.LocalFor("annotations")
	assert.True(t, ok)
	assert.Equal(t, "results", local)

	_, ok = m.LocalFor("missing")
	assert.False(t, ok)
}
