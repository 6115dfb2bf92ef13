package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dafibh/cinelist/cinelist-backend/internal/domain"
	"github.com/dafibh/cinelist/cinelist-backend/internal/presenter"
	"github.com/dafibh/cinelist/cinelist-backend/internal/service"
	"github.com/dafibh/cinelist/cinelist-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routerFixture struct {
	router    *Router
	movieRepo *testutil.MockMovieRepository
	userRepo  *testutil.MockUserRepository
}

func newRouterFixture() *routerFixture {
	userRepo := testutil.NewMockUserRepository()
	movieRepo := testutil.NewMockMovieRepository()
	movieRepo.Users = userRepo
	return &routerFixture{
		router:    NewRouter(service.NewMovieService(movieRepo, userRepo)),
		movieRepo: movieRepo,
		userRepo:  userRepo,
	}
}

func (f *routerFixture) text(t *testing.T, sender int64, text string) *Response {
	t.Helper()
	resp := f.router.Handle(context.Background(), Event{SenderID: sender, SenderFirstName: fmt.Sprintf("User%d", sender), Text: text})
	require.NotNil(t, resp)
	assert.False(t, resp.Edit)
	return resp
}

func (f *routerFixture) press(t *testing.T, sender int64, actionID string) *Response {
	t.Helper()
	return f.router.Handle(context.Background(), Event{SenderID: sender, ActionID: actionID})
}

func hasAction(resp *Response, action domain.Action) bool {
	for _, row := range resp.Keyboard {
		for _, btn := range row {
			if btn.Action == action {
				return true
			}
		}
	}
	return false
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text    string
		command string
		args    string
		ok      bool
	}{
		{"/start", "start", "", true},
		{"/add   The   Matrix  ", "add", "The Matrix", true},
		{"/add@CineListBot Heat", "add", "Heat", true},
		{"  /MY_MOVIES", "my_movies", "", true},
		{"/private 5 extra", "private", "5 extra", true},
		{"/", "", "", true},
		{"Inception", "", "", false},
		{"", "", "", false},
		{"watch /later", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			command, args, ok := ParseCommand(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.command, command)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestRouter_FreeTextAddsMovie(t *testing.T) {
	f := newRouterFixture()

	resp := f.text(t, 1, "  Inception ")

	assert.Contains(t, resp.Text, "\"Inception\" added")
	require.Equal(t, 1, f.movieRepo.Count())
	movie, _ := f.movieRepo.Get(1)
	assert.Equal(t, "Inception", movie.Title)
	assert.True(t, movie.IsPublic)
	assert.True(t, hasAction(resp, domain.WatchAction(1)))
	assert.True(t, hasAction(resp, domain.DeleteAction(1)))
}

func TestRouter_RegistersSender(t *testing.T) {
	f := newRouterFixture()

	f.router.Handle(context.Background(), Event{SenderID: 5, SenderUsername: "anna", SenderFirstName: "Anna", Text: "/help"})

	user, ok := f.userRepo.Get(5)
	require.True(t, ok)
	assert.Equal(t, "anna", user.Username)
	assert.Equal(t, "Anna", user.FirstName)
}

func TestRouter_AddCommand(t *testing.T) {
	f := newRouterFixture()

	resp := f.text(t, 1, "/add The Matrix")
	assert.Contains(t, resp.Text, "\"The Matrix\" added")
	assert.Equal(t, 1, f.movieRepo.Count())
}

func TestRouter_AddWithoutTitleMakesNoStoreCall(t *testing.T) {
	f := newRouterFixture()

	resp := f.text(t, 1, "/add")

	assert.Equal(t, presenter.AddUsage().Text, resp.Text)
	assert.Equal(t, 0, f.movieRepo.CallCount())
}

func TestRouter_WhitespaceTextRejected(t *testing.T) {
	f := newRouterFixture()

	resp := f.text(t, 1, "   ")

	assert.Equal(t, presenter.AddUsage().Text, resp.Text)
	assert.Equal(t, 0, f.movieRepo.Count())
}

func TestRouter_LongTitleAdded(t *testing.T) {
	f := newRouterFixture()
	title := strings.Repeat("x", 300)

	resp := f.text(t, 1, title)

	assert.Contains(t, resp.Text, presenter.TruncateTitle(title, presenter.TextTitleLimit))
	require.Equal(t, 1, f.movieRepo.Count())
	movie, ok := f.movieRepo.Get(1)
	require.True(t, ok)
	assert.Equal(t, title, movie.Title)
}

func TestRouter_StartAndHelp(t *testing.T) {
	f := newRouterFixture()

	assert.Contains(t, f.text(t, 3, "/start").Text, "Hi, User3!")
	assert.Equal(t, presenter.Help().Text, f.text(t, 3, "/help").Text)
	assert.Equal(t, presenter.UnknownCommand().Text, f.text(t, 3, "/rate 5").Text)
	assert.Equal(t, 0, f.movieRepo.CallCount())
}

func TestRouter_ListCommands(t *testing.T) {
	f := newRouterFixture()
	f.text(t, 1, "Alien")

	assert.Contains(t, f.text(t, 1, "/my_movies").Text, "1. Alien")
	assert.Contains(t, f.text(t, 1, "/watched").Text, "No watched movies yet.")
	assert.Contains(t, f.text(t, 1, "/all_movies").Text, "Alien [id 1]")
	assert.Contains(t, f.text(t, 1, "/public").Text, "1. 📝 Alien (by User1)")
}

func TestRouter_PrivateCommand(t *testing.T) {
	f := newRouterFixture()
	f.text(t, 1, "Up")

	resp := f.text(t, 1, "/private 1")
	assert.Contains(t, resp.Text, "is now private")

	resp = f.text(t, 1, "/private 1")
	assert.Contains(t, resp.Text, "is now public")
}

func TestRouter_PrivateCommandValidation(t *testing.T) {
	f := newRouterFixture()

	assert.Equal(t, presenter.PrivacyUsage().Text, f.text(t, 1, "/private").Text)

	calls := f.movieRepo.CallCount()
	assert.Equal(t, presenter.InvalidMovieID().Text, f.text(t, 1, "/private abc").Text)
	assert.Equal(t, calls, f.movieRepo.CallCount())

	assert.Equal(t, presenter.PrivacyNotFound().Text, f.text(t, 1, "/private 999").Text)
}

func TestRouter_WatchAction(t *testing.T) {
	f := newRouterFixture()
	f.text(t, 1, "Dune")

	resp := f.press(t, 1, "watch_1")
	require.NotNil(t, resp)
	assert.True(t, resp.Edit)
	assert.Contains(t, resp.Text, "\"Dune\" is marked as watched")

	resp = f.press(t, 1, "watch_1")
	require.NotNil(t, resp)
	assert.Equal(t, presenter.WatchNotFound().Text, resp.Text)
}

func TestRouter_ForgedActionsOnForeignMovies(t *testing.T) {
	f := newRouterFixture()
	f.text(t, 1, "Mine")

	assert.Equal(t, presenter.WatchNotFound().Text, f.press(t, 2, "watch_1").Text)
	assert.Equal(t, presenter.DeleteNotFound().Text, f.press(t, 2, "delete_1").Text)
	assert.Equal(t, presenter.PrivacyNotFound().Text, f.press(t, 2, "private_1").Text)

	movie, ok := f.movieRepo.Get(1)
	require.True(t, ok)
	assert.Equal(t, domain.StatusWantToWatch, movie.Status)
	assert.True(t, movie.IsPublic)
}

func TestRouter_DeleteAction(t *testing.T) {
	f := newRouterFixture()
	f.text(t, 1, "Tenet")

	resp := f.press(t, 1, "delete_1")
	require.NotNil(t, resp)
	assert.Equal(t, presenter.Deleted().Text, resp.Text)
	assert.Equal(t, 0, f.movieRepo.Count())

	assert.Equal(t, presenter.DeleteNotFound().Text, f.press(t, 1, "delete_1").Text)
}

func TestRouter_NavigationActions(t *testing.T) {
	f := newRouterFixture()
	f.text(t, 1, "Heat")

	tests := []struct {
		actionID string
		contains string
	}{
		{"show_lists", "Choose an action:"},
		{"all_movies", "All your movies"},
		{"watched_only", "Watched movies"},
		{"public_list", "Public list"},
		{"add_new_movie", "Send me the title"},
		{"help_btn", "Managing your lists"},
		{"private_1", "is now private"},
	}

	for _, tt := range tests {
		t.Run(tt.actionID, func(t *testing.T) {
			resp := f.press(t, 1, tt.actionID)
			require.NotNil(t, resp)
			assert.True(t, resp.Edit)
			assert.Contains(t, resp.Text, tt.contains)
		})
	}
}

func TestRouter_UnknownActionsIgnored(t *testing.T) {
	f := newRouterFixture()

	for _, actionID := range []string{"rate_1", "watch_abc", "watch_1_2", "delete_", "bogus"} {
		assert.Nil(t, f.press(t, 1, actionID), actionID)
	}
	assert.Equal(t, 0, f.movieRepo.CallCount())
}

func TestRouter_StorageFailureYieldsGenericMessage(t *testing.T) {
	f := newRouterFixture()
	f.movieRepo.Err = errors.New("connection reset")

	assert.Equal(t, presenter.Failure().Text, f.text(t, 1, "Heat").Text)
	assert.Equal(t, presenter.Failure().Text, f.text(t, 1, "/my_movies").Text)
	assert.Equal(t, presenter.Failure().Text, f.press(t, 1, "watch_1").Text)
	assert.Equal(t, presenter.Failure().Text, f.press(t, 1, "public_list").Text)
}

func TestRouter_UserRegistrationFailure(t *testing.T) {
	f := newRouterFixture()
	f.userRepo.UpsertErr = errors.New("connection reset")

	resp := f.text(t, 1, "Heat")

	assert.Equal(t, presenter.Failure().Text, resp.Text)
	assert.Equal(t, 0, f.movieRepo.Count())
}

type panickingUserRepo struct{}

func (panickingUserRepo) Upsert(ctx context.Context, user *domain.User) error {
	panic("boom")
}

func TestRouter_RecoversPanics(t *testing.T) {
	router := NewRouter(service.NewMovieService(testutil.NewMockMovieRepository(), panickingUserRepo{}))

	resp := router.Handle(context.Background(), Event{SenderID: 1, ActionID: "show_lists"})

	require.NotNil(t, resp)
	assert.True(t, resp.Edit)
	assert.Equal(t, presenter.Failure().Text, resp.Text)
}

func TestRouter_InceptionScenario(t *testing.T) {
	f := newRouterFixture()
	f.text(t, 1, "Inception")

	assert.Contains(t, f.text(t, 1, "/my_movies").Text, "1. Inception")
	assert.Contains(t, f.text(t, 2, "/public").Text, "📝 Inception (by User1)")

	f.text(t, 1, "/private 1")
	assert.NotContains(t, f.text(t, 2, "/public").Text, "Inception")
	assert.Contains(t, f.text(t, 1, "/my_movies").Text, "1. Inception")

	f.press(t, 1, "watch_1")
	movie, _ := f.movieRepo.Get(1)
	assert.Equal(t, domain.StatusWatched, movie.Status)
	assert.NotNil(t, movie.WatchedAt)
	assert.NotContains(t, f.text(t, 2, "/public").Text, "Inception")

	f.text(t, 1, "/private 1")
	assert.Contains(t, f.text(t, 2, "/public").Text, "✅ Inception (by User1)")
}
