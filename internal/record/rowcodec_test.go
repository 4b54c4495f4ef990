package record

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() Schema {
	return Schema{
		Names: ColumnNames{"a", "b"},
		Attrs: ColumnAttributes{{DataType: Int}, {DataType: Text}},
	}
}

func TestMarshalRow_Layout(t *testing.T) {
	s := testSchema()

	data, err := MarshalRow(s, Row{"a": IntValue(12), "b": TextValue("Hello!")})
	require.NoError(t, err)

	// 4 bytes int32 LE, then u16 length, then the ASCII bytes
	require.Len(t, data, 4+2+6)
	assert.Equal(t, []byte{12, 0, 0, 0}, data[:4])
	assert.Equal(t, []byte{6, 0}, data[4:6])
	assert.Equal(t, "Hello!", string(data[6:]))
}

func TestMarshalUnmarshal_RoundTrip(t *testing.T) {
	s := testSchema()
	row := Row{"a": IntValue(-42), "b": TextValue("minirel")}

	data, err := MarshalRow(s, row)
	require.NoError(t, err)

	got, err := UnmarshalRow(s, data)
	require.NoError(t, err)
	assert.Equal(t, row, got)
}

func TestMarshalRow_MissingColumn(t *testing.T) {
	s := testSchema()

	_, err := MarshalRow(s, Row{"a": IntValue(1)})
	require.ErrorIs(t, err, ErrSchema)
}

func TestMarshalRow_BoolInIntSlot(t *testing.T) {
	s := Schema{
		Names: ColumnNames{"flag"},
		Attrs: ColumnAttributes{{DataType: Int}},
	}

	data, err := MarshalRow(s, Row{"flag": BoolValue(true)})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 0, 0}, data)

	data, err = MarshalRow(s, Row{"flag": BoolValue(false)})
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, data)
}

func TestMarshalRow_TextTooLong(t *testing.T) {
	s := Schema{
		Names: ColumnNames{"b"},
		Attrs: ColumnAttributes{{DataType: Text}},
	}

	_, err := MarshalRow(s, Row{"b": TextValue(strings.Repeat("x", 1<<16))})
	require.ErrorIs(t, err, ErrSchema)
}

func TestMarshalRow_BooleanColumn(t *testing.T) {
	s := Schema{
		Names: ColumnNames{"b"},
		Attrs: ColumnAttributes{{DataType: Boolean}},
	}

	// a BOOLEAN column occupies an INT slot holding 0/1
	data, err := MarshalRow(s, Row{"b": BoolValue(true)})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 0, 0}, data)

	row, err := UnmarshalRow(s, data)
	require.NoError(t, err)
	assert.Equal(t, BoolValue(true), row["b"])
}

func TestValueEquality(t *testing.T) {
	assert.Equal(t, IntValue(3), IntValue(3))
	assert.NotEqual(t, IntValue(3), TextValue("3"))
	assert.NotEqual(t, BoolValue(true), IntValue(1))
}
