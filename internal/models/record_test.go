package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseCollection(t *testing.T) {
	c, ok := ParseCollection(" Notes ")
	assert.True(t, ok)
	assert.Equal(t, CollectionGrades, c)
	assert.Equal(t, "notes.json", c.FileName())

	_, ok = ParseCollection("teachers")
	assert.False(t, ok)
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 1, 9, 5, 7, 123456000, time.UTC)
	assert.Equal(t, "2024-03-01T09:05:07.123456", FormatTimestamp(ts))
}
