package feed

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/safewalk/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestParseChange(t *testing.T) {
	id := uuid.New()

	change, ok := parseChange(incidentsChannel)
	assert.True(t, ok)
	assert.Equal(t, models.FeedIncidentsChanged, change.Kind)

	change, ok = parseChange(commentsChannel(id))
	assert.True(t, ok)
	assert.Equal(t, models.FeedCommentsChanged, change.Kind)
	assert.Equal(t, id, change.IncidentID)

	_, ok = parseChange(commentsChannelPrefix + "not-a-uuid")
	assert.False(t, ok)

	_, ok = parseChange("sms_outbox")
	assert.False(t, ok)
}
