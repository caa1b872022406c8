package export_test

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-forum-profile/internal/export"
	"go-forum-profile/internal/model"
)

func strPtr(s string) *string { return &s }

func sampleDataset() model.Dataset {
	return model.Dataset{
		Profile: model.UserProfile{
			ID: "42", Name: "Jane", Website: strPtr("https://jane.example"),
			Biography: strPtr("<p>a & b</p>"), Joined: "20 Aug 2022",
			PositiveVotes: 12, NegativeVotes: 3, CurrentXP: 50, NextRankXP: 100, NextRankProgress: 50,
		},
		Badges: []model.Badge{{Name: "Supporter", IconURL: "https://www.odoo.com/b.png"}},
		Questions: model.RelatedQuestions{
			{Name: "Questions", Questions: []model.RelatedQuestion{{URL: "u", Time: "20 Aug 2022", Votes: 1, Title: "t", Content: "<div>c</div>"}}},
			{Name: "Favourites", Questions: []model.RelatedQuestion{}},
			{Name: "Followed", Questions: []model.RelatedQuestion{}},
		},
		Answers: []model.Answer{{URL: "u#answer-1", Time: "21 Aug 2022", Votes: 2, Accepted: true, AnsweredQuestion: model.Post{Title: "q"}}},
		Activity: []model.ActivityEntry{{Type: "Answered", Time: "08/21/22, 09:00 AM", URL: "u"}},
		Votes:    []model.VoteGiven{{Time: "2022-08-21 09:00:00", IsPositive: true, Title: "t", URL: "u"}},
	}
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	data := map[string]any{
		"list":   []any{1.0, "two", true, nil},
		"nested": map[string]any{"html": "<b>x</b>"},
	}
	require.NoError(t, export.Save(dir, "x", data))

	b, err := os.ReadFile(export.Path(dir, "x"))
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	if diff := cmp.Diff(data, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_Overwrites(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, export.Save(dir, "votes", []int{1, 2, 3}))
	require.NoError(t, export.Save(dir, "votes", []int{}))
	var got []int
	require.NoError(t, export.Load(dir, "votes", &got))
	assert.Empty(t, got)
}

func TestLoadDataset(t *testing.T) {
	dir := t.TempDir()
	want := sampleDataset()
	files := map[string]any{
		export.ProfileFile:   want.Profile,
		export.BadgesFile:    want.Badges,
		export.QuestionsFile: want.Questions,
		export.AnswersFile:   want.Answers,
		export.ActivityFile:  want.Activity,
		export.VotesFile:     want.Votes,
	}
	for name, v := range files {
		require.NoError(t, export.Save(dir, name, v))
	}
	got, err := export.LoadDataset(dir)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("dataset mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDataset_MissingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, export.Save(dir, export.ProfileFile, model.UserProfile{}))
	_, err := export.LoadDataset(dir)
	assert.ErrorContains(t, err, export.BadgesFile)
}

func TestProfileJSONKeys(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, export.Save(dir, export.ProfileFile, sampleDataset().Profile))
	var raw map[string]any
	require.NoError(t, export.Load(dir, export.ProfileFile, &raw))
	assert.Equal(t, 12.0, raw["Positive votes"])
	assert.Equal(t, 3.0, raw["Negative votes"])
	assert.Contains(t, raw, "City")
	assert.Nil(t, raw["City"])
	assert.NotContains(t, raw, "Email")
	assert.NotContains(t, raw, "password")
}
