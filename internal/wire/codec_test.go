package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingVisitor struct {
	visited string
}

func (r *recordingVisitor) VisitSimpleType(*SimpleType) error   { r.visited = "simple"; return nil }
func (r *recordingVisitor) VisitDynamicType(*DynamicType) error { r.visited = "dynamic"; return nil }
func (r *recordingVisitor) VisitErrorType(*ErrorType) error     { r.visited = "error"; return nil }

func TestModuleHeaderRoundTrip(t *testing.T) {
	in := Module{
		Version: FormatVersion,
		Name:    "m",
		Files: []File{
			{Name: "a.kt", Package: "p", Declarations: []uint64{1 << 40, 1<<40 | 2}},
		},
		Owners: []Owner{{ID: 1<<40 | 3, Blob: 1 << 40}, {ID: 1<<40 | 5, Blob: 1<<40 | 2}},
	}
	data, err := Marshal(&in)
	require.NoError(t, err)

	var out Module
	require.NoError(t, Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestOwnersEncodeInListedOrder(t *testing.T) {
	h := Module{Name: "m", Owners: []Owner{{ID: 7, Blob: 1}, {ID: 9, Blob: 2}, {ID: 12, Blob: 1}}}
	first, err := Marshal(&h)
	require.NoError(t, err)
	for i := 0; i < 8; i++ {
		again, err := Marshal(&h)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestUnmarshalRejectsUnknownFields(t *testing.T) {
	data, err := Marshal(map[string]any{"n": "m", "zz": 1})
	require.NoError(t, err)
	var out Module
	assert.Error(t, Unmarshal(data, &out))
}

func TestUnmarshalRejectsTrailingBytes(t *testing.T) {
	data, err := Marshal(&File{Name: "a"})
	require.NoError(t, err)
	data = append(data, 0xc0)
	var out File
	assert.Error(t, Unmarshal(data, &out))
}

func TestDispatch(t *testing.T) {
	tests := []struct {
		name    string
		typ     Type
		want    string
		wantErr error
	}{
		{name: "simple", typ: Type{Case: TypeSimple, Simple: &SimpleType{}}, want: "simple"},
		{name: "dynamic", typ: Type{Case: TypeDynamic, Dynamic: &DynamicType{}}, want: "dynamic"},
		{name: "unset", typ: Type{}, wantErr: ErrUnsetCase},
		{name: "missing payload", typ: Type{Case: TypeError}, wantErr: ErrMissingPayload},
		{name: "unknown", typ: Type{Case: 42}, wantErr: ErrUnknownCase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &recordingVisitor{}
			err := tt.typ.Dispatch(v)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				var ce *CaseError
				require.ErrorAs(t, err, &ce)
				assert.Equal(t, "type", ce.Union)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.visited)
		})
	}
}

func TestStatementDispatchUnset(t *testing.T) {
	var s Statement
	assert.ErrorIs(t, s.Dispatch(nil), ErrUnsetCase)
}
