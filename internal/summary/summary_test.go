package summary

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/bethropolis/filekit/internal/copier"
	"github.com/stretchr/testify/assert"
)

type recorder struct{ lines []string }

func (r *recorder) Info(format string, args ...interface{}) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func TestDisplayResults(t *testing.T) {
	var r recorder
	DisplayResults(&r, 3, 1500*time.Microsecond, false)
	assert.Equal(t, []string{"Found 3 entries.", "Listing complete in 2ms."}, r.lines)

	r = recorder{}
	DisplayResults(&r, 3, time.Second, true)
	assert.Empty(t, r.lines)
}

func TestDisplayCopy(t *testing.T) {
	var r recorder
	var buf bytes.Buffer
	DisplayCopy(&r, copier.Report{Source: "a", Dest: "b", Files: 2, Dirs: 1}, time.Millisecond, &buf, false)

	assert.Len(t, r.lines, 1)
	assert.Equal(t, "Files  2\nDirs   1\nLinks  0\n", buf.String())

	buf.Reset()
	DisplayCopy(&r, copier.Report{Source: "a", Dest: "b", Accelerated: true}, time.Millisecond, &buf, false)
	assert.Equal(t, "Copied tree a -> b\n", buf.String())

	buf.Reset()
	DisplayCopy(&r, copier.Report{}, time.Millisecond, &buf, true)
	assert.Empty(t, buf.String())
}
