package monitoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mute(t *testing.T) {
	t.Helper()
	original := Logf
	SetLogger(nil)
	t.Cleanup(func() { Logf = original })
}

func TestReport_Levels(t *testing.T) {
	mute(t)

	r := NewReport()
	assert.False(t, r.HasErrors())
	assert.NoError(t, r.Err())

	r.Remarkf("read %d shards", 2)
	r.Warnf("Click the button to write data.")
	assert.True(t, r.Has(Remark))
	assert.True(t, r.Has(Warning))
	assert.False(t, r.HasErrors())
	assert.NoError(t, r.Err())

	r.Errorf("Work path was not given.")
	r.Errorf("second %s", "failure")
	assert.True(t, r.HasErrors())
	require.Error(t, r.Err())
	assert.Equal(t, "Work path was not given.; second failure", r.Err().Error())

	msgs := r.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, Message{Level: Remark, Text: "read 2 shards"}, msgs[0])
	assert.Equal(t, "warning: Click the button to write data.", msgs[1].String())
	assert.Equal(t, Error, msgs[3].Level)
}

func TestReport_MessagesIsACopy(t *testing.T) {
	mute(t)

	r := NewReport()
	r.Warnf("w")
	msgs := r.Messages()
	msgs[0].Text = "changed"
	assert.Equal(t, "w", r.Messages()[0].Text)
}

func TestReport_NilAndZeroValue(t *testing.T) {
	mute(t)

	var nilReport *Report
	assert.Nil(t, nilReport.Messages())
	assert.False(t, nilReport.HasErrors())
	assert.NoError(t, nilReport.Err())

	var zero Report
	zero.Errorf("boom")
	assert.True(t, zero.HasErrors())
}

func TestReport_LogsEveryMessage(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var lines []string
	SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, format)
	})
	r := NewReport()
	r.Remarkf("a")
	r.Errorf("b")
	assert.Len(t, lines, 2)
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "remark", Remark.String())
	assert.Equal(t, "warning", Warning.String())
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "level(7)", Level(7).String())
}
