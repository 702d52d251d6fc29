package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBracketPicksDecodeStrict(t *testing.T) {
	payload := `{"round1":{"game1":1,"game2":4,"game3":2,"game4":3},"round2":{"game1":1,"game2":2},"round3":{"game1":1}}`

	var picks BracketPicks
	assert.NoError(t, json.Unmarshal([]byte(payload), &picks))
	assert.Equal(t, uint(4), picks.Round1["game2"])
	assert.Equal(t, uint(2), picks.Round2["game2"])
	assert.Equal(t, uint(1), picks.Round3["game1"])
}

func TestBracketPicksRejectUnknownKeys(t *testing.T) {
	var picks BracketPicks
	err := json.Unmarshal([]byte(`{"round1":{},"round4":{"game1":1}}`), &picks)
	assert.Error(t, err)
}

func TestBracketPicksMissingRoundsDecodeEmpty(t *testing.T) {
	var picks BracketPicks
	assert.NoError(t, json.Unmarshal([]byte(`{"round1":{"game1":1}}`), &picks))
	assert.NotNil(t, picks.Round2)
	assert.NotNil(t, picks.Round3)
	assert.Empty(t, picks.Round2)
}

func TestBracketPicksRoundTripThroughColumn(t *testing.T) {
	picks := BracketPicks{
		Round1: map[string]uint{"game1": 1, "game2": 4, "game3": 2, "game4": 3},
		Round2: map[string]uint{"game1": 1, "game2": 2},
		Round3: map[string]uint{"game1": 1},
	}

	value, err := picks.Value()
	assert.NoError(t, err)

	var scanned BracketPicks
	assert.NoError(t, scanned.Scan(value))
	assert.Equal(t, picks, scanned)
}

func TestPickKey(t *testing.T) {
	assert.Equal(t, "game1", PickKey(1))
	assert.Equal(t, "game4", PickKey(4))
}

func TestRoundAccessor(t *testing.T) {
	picks := BracketPicks{Round1: map[string]uint{"game1": 7}}
	assert.Equal(t, uint(7), picks.Round(1)["game1"])
	assert.Nil(t, picks.Round(4))
}
