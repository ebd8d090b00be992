package subscriber

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderFormatsExpectedFields(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, sampleFrame())
	require.NoError(t, err)

	line := buf.String()
	assert.True(t, strings.HasSuffix(line, "\n"))
	assert.Contains(t, line, "ECU1")
	assert.Contains(t, line, "LOG")
	assert.Contains(t, line, "TEST")
	assert.Contains(t, line, "mcnt=3")
	assert.Contains(t, line, "noar=1")
	assert.Contains(t, line, `"0 Hello"`)
}

func TestRenderSummaryUsesHumanReadableSize(t *testing.T) {
	var buf bytes.Buffer
	err := RenderSummary(&buf, 5, 2048)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "5 frames")
	assert.Contains(t, buf.String(), "2.0 kB")
}
