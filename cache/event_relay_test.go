package cache

import (
	"testing"

	"tracklist/model"

	"github.com/stretchr/testify/assert"
)

func TestRelayEventKeepsJSON(t *testing.T) {
	ev := RelayEvent(`{"now_playing":42}`)
	assert.Equal(t, model.EventRelay, ev.Type)
	assert.NotZero(t, ev.Timestamp)
	assert.JSONEq(t, `{"now_playing":42}`, string(ev.Data))
}

func TestRelayEventQuotesPlainText(t *testing.T) {
	ev := RelayEvent(`library rescan finished`)
	assert.Equal(t, `"library rescan finished"`, string(ev.Data))

	ev = RelayEvent(`say "hi"`)
	assert.Equal(t, `"say \"hi\""`, string(ev.Data))
}

func TestRelayEventEmptyPayload(t *testing.T) {
	ev := RelayEvent("")
	assert.Equal(t, `""`, string(ev.Data))
}
