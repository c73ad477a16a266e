package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type optionalPayload struct {
	CategoryID  Optional[uint]      `json:"category_id"`
	CompletedAt Optional[time.Time] `json:"completed_at"`
}

func TestOptionalDistinguishesAbsentFromNull(t *testing.T) {
	var absent optionalPayload
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.False(t, absent.CategoryID.Set)
	assert.False(t, absent.CompletedAt.Set)

	var null optionalPayload
	require.NoError(t, json.Unmarshal([]byte(`{"category_id": null, "completed_at": null}`), &null))
	assert.True(t, null.CategoryID.Set)
	assert.Nil(t, null.CategoryID.Value)
	assert.True(t, null.CompletedAt.Set)
	assert.Nil(t, null.CompletedAt.Value)

	var set optionalPayload
	require.NoError(t, json.Unmarshal([]byte(`{"category_id": 7, "completed_at": "2024-05-01T10:00:00Z"}`), &set))
	require.NotNil(t, set.CategoryID.Value)
	assert.Equal(t, uint(7), *set.CategoryID.Value)
	require.NotNil(t, set.CompletedAt.Value)
	assert.Equal(t, 2024, set.CompletedAt.Value.Year())
}

func TestOptionalRejectsWrongType(t *testing.T) {
	var p optionalPayload
	assert.Error(t, json.Unmarshal([]byte(`{"category_id": "seven"}`), &p))
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 0, Progress(0, 0))
	assert.Equal(t, 0, Progress(0, 3))
	assert.Equal(t, 33, Progress(1, 3))
	assert.Equal(t, 100, Progress(2, 2))
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, StatusInProgress.Valid())
	assert.False(t, Status("in_progress").Valid())
	assert.True(t, DifficultyExpert.Valid())
	assert.False(t, Difficulty("legendary").Valid())
}
