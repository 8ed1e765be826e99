package baklog_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golift.io/baklog"
)

func TestMsgLine(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	stamp := time.Date(2024, time.June, 1, 13, 37, 42, 0, time.Local)
	msg := baklog.Msg{Level: baklog.Info, Stamp: stamp.Unix(), Text: "torrent added"}

	assert.Equal("(I) 2024-06-01T13:37:42 - torrent added\n", msg.Line())
}

func TestSeverityCodes(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	codes := map[baklog.Severity]byte{
		baklog.Normal:   'N',
		baklog.Info:     'I',
		baklog.Warning:  'W',
		baklog.Critical: 'C',
	}

	for level, code := range codes {
		assert.Equal(code, level.Code(), fmt.Sprintf("wrong code for severity %d", level))
	}

	assert.Equal(byte('N'), baklog.Severity(99).Code(), "unknown severities fall back to the default code")
}
