package diag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderLogsAndKeeps(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(zerolog.New(&buf))

	r.Warn(KindDuplicate, "split-1", "split %s registered twice", "split-1")
	r.Warn(KindUnresolved, "entry-9", "invoice %s not found", "inv-3")

	require.Equal(t, 2, r.Len())
	all := r.All()
	assert.Equal(t, KindDuplicate, all[0].Kind)
	assert.Equal(t, "split split-1 registered twice", all[0].Message)
	assert.Len(t, r.ByKind(KindUnresolved), 1)

	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"subject":"split-1"`)
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.Warn(KindMalformed, "x", "ignored")
	assert.Zero(t, r.Len())
	assert.Nil(t, r.All())
}

func TestCSVRoundTrip(t *testing.T) {
	items := []Diagnostic{
		{Kind: KindDuplicate, Subject: "acc-1", Message: "account acc-1 defined twice, keeping the last"},
		{Kind: KindUnsupported, Subject: "tt-2", Message: `value-type entry, "0%" used`},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, items))
	assert.True(t, strings.HasPrefix(buf.String(), Header))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, items, got)
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	got, err := ReadCSV(strings.NewReader(Header + "\n"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUnmarshalDiagnostic_WrongFieldCount(t *testing.T) {
	_, err := UnmarshalDiagnostic([]string{"a", "b"})
	assert.Error(t, err)
}
