package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-forum-profile/internal/model"
)

func TestRelatedQuestions_JSONKeepsOrderAndEmptySections(t *testing.T) {
	rq := model.RelatedQuestions{
		{Name: "Questions", Questions: []model.RelatedQuestion{{URL: "u", Time: "t", Votes: 1, Title: "x", Content: "c"}}},
		{Name: "Favourites"},
		{Name: "Followed", Questions: []model.RelatedQuestion{}},
	}
	b, err := json.Marshal(rq)
	require.NoError(t, err)
	assert.Equal(t,
		`{"Questions":[{"URL":"u","time":"t","votes":1,"title":"x","content":"c"}],"Favourites":[],"Followed":[]}`,
		string(b))

	var back model.RelatedQuestions
	require.NoError(t, json.Unmarshal(b, &back))
	require.Len(t, back, 3)
	assert.Equal(t, []string{"Questions", "Favourites", "Followed"}, []string{back[0].Name, back[1].Name, back[2].Name})
	assert.NotNil(t, back[1].Questions)
	assert.Equal(t, 1, back.Total())
}

func TestRelatedQuestions_UnmarshalRejectsArray(t *testing.T) {
	var rq model.RelatedQuestions
	assert.Error(t, json.Unmarshal([]byte(`[]`), &rq))
}

func TestProgress(t *testing.T) {
	assert.InDelta(t, 25.0, model.UserProfile{CurrentXP: 50, NextRankXP: 200}.Progress(), 1e-9)
	assert.Zero(t, model.UserProfile{CurrentXP: 50}.Progress())
}

func TestVotesGivenSplit(t *testing.T) {
	d := model.Dataset{Votes: []model.VoteGiven{{IsPositive: true}, {IsPositive: true}, {}}}
	pos, neg := d.VotesGivenSplit()
	assert.Equal(t, 2, pos)
	assert.Equal(t, 1, neg)
}
