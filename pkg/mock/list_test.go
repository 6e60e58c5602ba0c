package mock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListBounds(t *testing.T) {
	tests := []struct {
		name    string
		list    *List
		min     int
		max     int
		wantErr bool
	}{
		{name: "exact", list: NewList(3), min: 3, max: 3},
		{name: "zero", list: NewList(0), min: 0, max: 0},
		{name: "range", list: NewListRange(1, 5), min: 1, max: 5},
		{name: "negative min", list: NewList(-1), wantErr: true},
		{name: "descending range", list: NewListRange(5, 2), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max, err := tt.list.bounds()
			if tt.wantErr {
				require.Error(t, err)
				var spec *InvalidListSpecError
				assert.ErrorAs(t, err, &spec)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.min, min)
			assert.Equal(t, tt.max, max)
		})
	}
}

func TestListItemFn(t *testing.T) {
	l := NewList(2, Value("x"))
	assert.NotNil(t, l.item)

	bare := NewList(2)
	assert.Nil(t, bare.item)
}

func TestInvalidListSpecErrorMessage(t *testing.T) {
	err := &InvalidListSpecError{Min: 5, Max: 2}
	assert.Equal(t, "invalid list length spec [5, 2]", err.Error())
}

func TestMissingMockKindErrorMessage(t *testing.T) {
	err := &MissingMockKindError{TypeName: "DateTime"}
	assert.Equal(t, `no mock defined for type "DateTime"`, err.Error())
}
