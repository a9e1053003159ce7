package cli

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/dinostories/internal/client/models"
	"github.com/stretchr/testify/assert"
)

func TestFormatStoryLine(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	plain := models.StoryView{Story: models.Story{ID: "1", Name: "Rex", CreatedAt: ts}}
	assert.Equal(t, "1  Rex  2024-05-01", formatStoryLine(plain))

	offline := models.StoryView{Story: models.Story{ID: "2", Name: "Tricera", CreatedAt: ts, Offline: true}}
	assert.Contains(t, formatStoryLine(offline), "[offline]")

	bookmarked := models.StoryView{Story: models.Story{ID: "3", Name: "Dino", CreatedAt: ts}, Bookmarked: true}
	assert.Contains(t, formatStoryLine(bookmarked), "[*]")
}
