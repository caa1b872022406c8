package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-forum-profile/internal/model"
	"go-forum-profile/internal/timeline"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPie_VotesReceived(t *testing.T) {
	d := model.Dataset{Profile: model.UserProfile{PositiveVotes: 12, NegativeVotes: 3}}
	p := VotesReceivedPie(d)
	assert.Equal(t, []int{12, 3}, p.Counts())
	assert.Equal(t, 15, p.Total())
	assert.InDelta(t, 80.0, p.Share(0), 1e-9)

	var buf bytes.Buffer
	require.NoError(t, Renderer{}.Pie(&buf, p))
	out := buf.String()
	for _, want := range []string{"Votes Received (15)", "Positive (12)", "Negative (3)", "80%", "20%"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "\x1b[", "color disabled")
}

func TestPie_ZeroTotal(t *testing.T) {
	p := VotesGivenPie(model.Dataset{})
	assert.Equal(t, []int{0, 0}, p.Counts())
	assert.Zero(t, p.Share(1))
	var buf bytes.Buffer
	require.NoError(t, Renderer{}.Pie(&buf, p))
	assert.Contains(t, buf.String(), "Votes Given (0)")
}

func TestPie_TitleStaysOnOneLineWhenEmpty(t *testing.T) {
	for _, p := range []PieData{QAPie(model.Dataset{}), VotesReceivedPie(model.Dataset{}), VotesGivenPie(model.Dataset{})} {
		var buf bytes.Buffer
		require.NoError(t, Renderer{}.Pie(&buf, p))
		title := p.Title + " (0)"
		found := false
		for _, line := range strings.Split(buf.String(), "\n") {
			if strings.Contains(line, title) {
				found = true
			}
		}
		assert.True(t, found, "title %q split across lines:\n%s", title, buf.String())
	}
}

func TestQAPie_CountsAskedSectionOnly(t *testing.T) {
	d := model.Dataset{
		Questions: model.RelatedQuestions{
			{Name: "Questions", Questions: make([]model.RelatedQuestion, 2)},
			{Name: "Followed", Questions: make([]model.RelatedQuestion, 5)},
		},
		Answers: make([]model.Answer, 3),
	}
	assert.Equal(t, []int{2, 3}, QAPie(d).Counts())
}

func TestVotesGivenPie(t *testing.T) {
	d := model.Dataset{Votes: []model.VoteGiven{{IsPositive: true}, {IsPositive: false}, {IsPositive: true}}}
	p := VotesGivenPie(d)
	assert.Equal(t, []int{2, 1}, p.Counts())
	assert.Equal(t, "Positive (2)", p.Slices[0].Legend())
}

func TestCalendar_Cells(t *testing.T) {
	s, err := timeline.DailyCounts([]time.Time{
		day(2022, time.August, 20), // 周六
		day(2022, time.August, 22), // 周一
		day(2022, time.August, 22),
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Renderer{}.Calendar(&buf, "Answers Given", s))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Answers Given\n"))
	assert.Contains(t, out, "\n2022\n")
	assert.Contains(t, out, "Aug")

	rows := map[string]string{}
	for _, line := range strings.Split(out, "\n") {
		for _, wd := range weekdays {
			if strings.HasPrefix(line, wd+" ") {
				rows[wd] = line
			}
		}
	}
	require.Len(t, rows, 7)
	assert.Contains(t, rows["Sat"], "▒")
	assert.Contains(t, rows["Sun"], "·")
	assert.Contains(t, rows["Mon"], "█")
	assert.NotContains(t, rows["Tue"], "·")

	assert.Contains(t, out, "Less · ░ ▒ ▓ █ More (max 2/day)")
	assert.Contains(t, out, "2022-08-20")
	assert.Contains(t, out, "2022-08-22")
}

func TestCalendar_NoScaleForSingleCounts(t *testing.T) {
	s, err := timeline.DailyCounts([]time.Time{day(2021, time.December, 30), day(2022, time.January, 2)})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Renderer{}.Calendar(&buf, "Questions Asked", s))
	out := buf.String()
	assert.NotContains(t, out, "Less")
	assert.Contains(t, out, "\n2021\n")
	assert.Contains(t, out, "\n2022\n")
}

func TestCalendar_Empty(t *testing.T) {
	err := Renderer{}.Calendar(&bytes.Buffer{}, "x", timeline.Series{})
	assert.ErrorIs(t, err, timeline.ErrEmptyRange)
}

func TestLevel(t *testing.T) {
	cases := []struct{ count, max, want int }{
		{1, 4, 0}, {2, 4, 1}, {3, 4, 2}, {4, 4, 3},
		{1, 1, 3}, {1, 100, 0}, {5, 0, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, level(c.count, c.max), "level(%d, %d)", c.count, c.max)
	}
}

func TestWeekdayIndex(t *testing.T) {
	assert.Equal(t, 0, weekdayIndex(day(2022, time.August, 22)))
	assert.Equal(t, 6, weekdayIndex(day(2022, time.August, 21)))
}

func TestReport_SkipsEmptyHeatmaps(t *testing.T) {
	d := model.Dataset{
		Profile:  model.UserProfile{Joined: "20 Aug 2022", PositiveVotes: 1},
		Activity: []model.ActivityEntry{{Type: "Commented", Time: "08/25/22, 10:00 AM"}},
	}
	var buf bytes.Buffer
	require.NoError(t, Renderer{}.Report(&buf, d))
	out := buf.String()
	assert.Contains(t, out, "Questions & Answers (0)")
	assert.Contains(t, out, "Votes Received (1)")
	assert.Contains(t, out, "Votes Given (0)")
	assert.NotContains(t, out, "Questions Asked")
	assert.NotContains(t, out, "Answers Given")
	assert.Contains(t, out, "\nActivity\n")
}

func TestReport_BadDate(t *testing.T) {
	d := model.Dataset{Profile: model.UserProfile{Joined: "2022-08-20"}}
	err := Renderer{}.Report(&bytes.Buffer{}, d)
	var pe *timeline.DateParseError
	require.True(t, errors.As(err, &pe), "err = %v", err)
	assert.Equal(t, "joined", pe.Kind)
}
