package reembed

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_ReportsAtInterval(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressTracker(&buf, 100, 10)
	p.Start()

	p.Add(5)
	assert.Empty(t, buf.String(), "below the interval nothing is written")

	p.Add(5)
	assert.Contains(t, buf.String(), "10/100 listings (10.0%")
	assert.Equal(t, 10, p.Done())
}

func TestProgressTracker_CapsAtTotal(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressTracker(&buf, 10, 5)
	p.Start()
	p.Add(25)
	assert.Equal(t, 10, p.Done())
	assert.Contains(t, buf.String(), "10/10")
}

func TestProgressTracker_IgnoresAddBeforeStart(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressTracker(&buf, 10, 1)
	p.Add(3)
	p.Finish()
	assert.Zero(t, p.Done())
	assert.Empty(t, buf.String())
	assert.Zero(t, p.Elapsed())
}

func TestProgressTracker_SkipDoesNotReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressTracker(&buf, 100, 10)
	p.Start()
	p.Skip(40)
	assert.Empty(t, buf.String())

	p.Add(10)
	assert.Contains(t, buf.String(), "50/100")
}

func TestProgressTracker_Finish(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressTracker(&buf, 4, 100)
	p.Start()
	p.Add(4)
	p.Finish()

	out := buf.String()
	assert.Contains(t, out, "4/4 listings (100.0%")
	assert.True(t, strings.HasSuffix(out, "\n"))
}
