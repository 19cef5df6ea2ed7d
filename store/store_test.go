package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFileAbsentReturnsNil(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	data, err := s.ReadFile("data_identity.json")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	want := []byte(`{"pubkey":"abc","privkey":"def"}`)
	require.NoError(t, s.WriteFile("data_identity.json", want))

	got, err := s.ReadFile("data_identity.json")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWriteFileOverwritesInFull(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.WriteFile("data_contacts.json", []byte(`[{"id":1}]`)))
	require.NoError(t, s.WriteFile("data_contacts.json", []byte(`[]`)))

	got, err := s.ReadFile("data_contacts.json")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestSplitObjects(t *testing.T) {
	doc := []byte(`[{"id":1,"name":"a,b"},{"id":2,"name":"c}d"}]`)
	objs := SplitObjects(doc)
	require.Len(t, objs, 2)
	assert.Contains(t, objs[0], `"id":1`)
	assert.Contains(t, objs[1], `"id":2`)
}

func TestSplitObjectsEmptyArray(t *testing.T) {
	assert.Nil(t, SplitObjects([]byte(`[]`)))
}

func TestScanStringEscaping(t *testing.T) {
	obj := `{"text":"line one\nline \"two\""}`
	value, ok := ScanString(obj, "text")
	require.True(t, ok)
	assert.Equal(t, "line one\nline \"two\"", value)
}

func TestScanStringMissingKey(t *testing.T) {
	_, ok := ScanString(`{"id":1}`, "name")
	assert.False(t, ok)
}

func TestScanNumber(t *testing.T) {
	v, ok := ScanNumber(`{"id":42,"ts":-7}`, "id")
	require.True(t, ok)
	assert.EqualValues(t, 42, v)

	v, ok = ScanNumber(`{"id":42,"ts":-7}`, "ts")
	require.True(t, ok)
	assert.EqualValues(t, -7, v)
}

func TestScanBool(t *testing.T) {
	v, ok := ScanBool(`{"acked":true}`, "acked")
	require.True(t, ok)
	assert.True(t, v)

	v, ok = ScanBool(`{"acked":false}`, "acked")
	require.True(t, ok)
	assert.False(t, v)
}

func TestEscapeUnescapeRoundTrip(t *testing.T) {
	original := "quote\" backslash\\ newline\nend"
	escaped := EscapeString(original)
	assert.Equal(t, original, unescapeString(escaped))
}
