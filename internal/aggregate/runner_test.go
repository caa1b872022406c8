package aggregate_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-forum-profile/internal/aggregate"
	"go-forum-profile/internal/config"
	"go-forum-profile/internal/export"
	"go-forum-profile/internal/fetch"
	"go-forum-profile/internal/forum"
	"go-forum-profile/internal/model"
	"go-forum-profile/internal/store"
)

// 复用 forum 包的页面样本
const pages = "../forum/testdata"

const loginForm = `<form action="/web/login" method="post"><input type="hidden" name="csrf_token" value="t0k"></form>`

var creds = config.Credentials{UserID: "42", Email: "jane@example.com", Password: "pw"}

// forum 模拟站点；broken 中的路径返回 500。
func forumServer(t *testing.T, broken ...string) *httptest.Server {
	t.Helper()
	files := map[string]string{
		"/profile/user/42":   "profile.html",
		"/forum/help-1/q-10": "question_10.html",
		"/forum/help-1/q-11": "question_11.html",
		"/forum/help-1/q-12": "question_12.html",
	}
	for _, p := range broken {
		delete(files, p)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/web/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(loginForm))
			return
		}
		if r.FormValue("csrf_token") != "t0k" || r.FormValue("password") != creds.Password {
			http.Error(w, "denied", http.StatusForbidden)
			return
		}
		http.Redirect(w, r, r.FormValue("redirect"), http.StatusSeeOther)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		name, ok := files[r.URL.Path]
		if !ok {
			http.Error(w, "broken", http.StatusInternalServerError)
			return
		}
		http.ServeFile(w, r, filepath.Join(pages, name))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newRunner(t *testing.T, srv *httptest.Server, root string) (*aggregate.Runner, *store.Dir) {
	t.Helper()
	sess, err := fetch.New(fetch.Options{BaseURL: srv.URL})
	require.NoError(t, err)
	dir, err := store.Open(root, creds.UserID)
	require.NoError(t, err)
	ex := aggregate.FromParser(forum.NewParser(sess.Base()))
	return aggregate.New(creds, sess, dir, ex), dir
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestRun_WritesAllFiles(t *testing.T) {
	srv := forumServer(t)
	root := t.TempDir()
	r, dir := newRunner(t, srv, root)

	// 上一次运行的残留文件应被清除
	require.NoError(t, os.MkdirAll(dir.Path(), 0o755))
	stale := filepath.Join(dir.Path(), "stale.json")
	require.NoError(t, os.WriteFile(stale, []byte("{}"), 0o644))

	ds, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, exists(stale))

	for _, name := range []string{
		export.ProfileFile, export.BadgesFile, export.QuestionsFile,
		export.AnswersFile, export.ActivityFile, export.VotesFile,
	} {
		assert.True(t, exists(export.Path(dir.Path(), name)), name)
	}

	assert.Equal(t, "Jane Doe", ds.Profile.Name)
	assert.Len(t, ds.Badges, 2)
	assert.Len(t, ds.Questions.Section(model.AskedSection), 1)
	assert.Equal(t, 2, ds.Questions.Total())
	require.Len(t, ds.Answers, 1)
	assert.True(t, ds.Answers[0].Accepted)
	assert.Len(t, ds.Activity, 2)
	assert.Len(t, ds.Votes, 2)

	back, err := export.LoadDataset(dir.Path())
	require.NoError(t, err)
	assert.Equal(t, ds.Profile, back.Profile)
	assert.Equal(t, ds.Answers, back.Answers)

	raw, err := os.ReadFile(export.Path(dir.Path(), export.ProfileFile))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), creds.Password)
	assert.NotContains(t, string(raw), creds.Email)
}

func TestRun_StopsAtFirstFailure(t *testing.T) {
	srv := forumServer(t, "/forum/help-1/q-11")
	r, dir := newRunner(t, srv, t.TempDir())

	_, err := r.Run(context.Background())
	var se *fetch.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Code)

	assert.True(t, exists(export.Path(dir.Path(), export.ProfileFile)))
	assert.True(t, exists(export.Path(dir.Path(), export.BadgesFile)))
	for _, name := range []string{export.QuestionsFile, export.AnswersFile, export.ActivityFile, export.VotesFile} {
		assert.False(t, exists(export.Path(dir.Path(), name)), name)
	}
}

func TestRun_LoginRejected(t *testing.T) {
	srv := forumServer(t)
	sess, err := fetch.New(fetch.Options{BaseURL: srv.URL})
	require.NoError(t, err)
	dir, err := store.Open(t.TempDir(), "42")
	require.NoError(t, err)
	bad := creds
	bad.Password = "wrong"

	_, err = aggregate.New(bad, sess, dir, aggregate.FromParser(forum.NewParser(sess.Base()))).Run(context.Background())
	require.Error(t, err)
	entries, rerr := os.ReadDir(dir.Path())
	require.NoError(t, rerr)
	assert.Empty(t, entries)
}
