package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.PublishBuild(BuildEvent{Version: "v25.2.0"}))
	p.Close()
}

func TestBuildEventPayload(t *testing.T) {
	event := BuildEvent{
		BuildID:    "b-1",
		Version:    "v25.2.0",
		Success:    true,
		FilesTotal: 10,
		FilesOK:    10,
		FinishedAt: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "v25.2.0", decoded["version"])
	assert.Equal(t, true, decoded["success"])
	assert.NotContains(t, decoded, "error", "empty error is omitted")
}
