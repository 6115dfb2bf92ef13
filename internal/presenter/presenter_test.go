package presenter

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/cinelist/cinelist-backend/internal/domain"
	"github.com/dafibh/cinelist/cinelist-backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func listItems(n int) []*domain.MovieListItem {
	items := make([]*domain.MovieListItem, n)
	for i := range items {
		items[i] = &domain.MovieListItem{ID: int64(i + 1), Title: fmt.Sprintf("Movie %d", i+1), AddedAt: day}
	}
	return items
}

func countMutations(kb [][]Button) int {
	n := 0
	for _, row := range kb {
		for _, btn := range row {
			if btn.Action.HasMovie() {
				n++
			}
		}
	}
	return n
}

func countNavigationRows(kb [][]Button) int {
	n := 0
	for _, row := range kb {
		for _, btn := range row {
			if !btn.Action.HasMovie() {
				n++
				break
			}
		}
	}
	return n
}

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		limit int
		want  string
	}{
		{"short", "Up", 20, "Up"},
		{"exact", "12345678901234567890", 20, "12345678901234567890"},
		{"long", "The Lord of the Rings: The Fellowship", 20, "The Lord of the Ring..."},
		{"multibyte", "Амели с Монмартра и её чудесная судьба", 5, "Амели..."},
		{"empty", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateTitle(tt.title, tt.limit))
		})
	}
}

func TestKeyboard_MutationBudget(t *testing.T) {
	var kb keyboard
	for i := 1; i <= 8; i++ {
		added := kb.mutation("x", domain.WatchAction(int64(i)))
		assert.Equal(t, i <= MaxMutationButtons, added)
	}
	kb.navigation(btnMyLists)
	kb.navigation(btnAllMovies, btnAdd)

	rows := kb.build()
	assert.Equal(t, MaxMutationButtons, countMutations(rows))
	assert.Equal(t, 1, countNavigationRows(rows))
	assert.Equal(t, []Button{btnAllMovies, btnAdd}, rows[len(rows)-1])
}

func TestMyLists_TextAndButtons(t *testing.T) {
	lists := &service.MyLists{
		WantToWatch: listItems(15),
		Watched:     listItems(10),
		Counts:      domain.MovieCounts{WantToWatch: 18, Watched: 10},
	}

	msg := MyLists(lists)

	assert.Contains(t, msg.Text, "📝 Want to watch:")
	assert.Contains(t, msg.Text, "15. Movie 15")
	assert.Contains(t, msg.Text, "... and 3 more")
	assert.Contains(t, msg.Text, "• Want to watch: 18")
	assert.Contains(t, msg.Text, "• Total: 28")
	assert.Equal(t, MaxMutationButtons, countMutations(msg.Keyboard))
	assert.Equal(t, 1, countNavigationRows(msg.Keyboard))
	assert.Equal(t, domain.WatchAction(1), msg.Keyboard[0][0].Action)
}

func TestMyLists_OffersDeleteWhenFewPending(t *testing.T) {
	lists := &service.MyLists{
		WantToWatch: listItems(2),
		Watched:     []*domain.MovieListItem{{ID: 99, Title: "Seen", AddedAt: day}},
		Counts:      domain.MovieCounts{WantToWatch: 2, Watched: 1},
	}

	msg := MyLists(lists)

	require.Len(t, msg.Keyboard, 4)
	assert.Equal(t, domain.DeleteAction(99), msg.Keyboard[2][0].Action)
	assert.Equal(t, "🗑️ Delete 'Seen'", msg.Keyboard[2][0].Label)
}

func TestMyLists_Empty(t *testing.T) {
	msg := MyLists(&service.MyLists{})

	assert.Contains(t, msg.Text, "Add your first movie!")
	assert.Contains(t, msg.Text, "Watch your first movie!")
	assert.NotContains(t, msg.Text, "more")
	assert.Equal(t, 0, countMutations(msg.Keyboard))
	assert.Equal(t, 1, countNavigationRows(msg.Keyboard))
}

func TestMyLists_TruncatesTitles(t *testing.T) {
	long := strings.Repeat("a", 100)
	msg := MyLists(&service.MyLists{
		WantToWatch: []*domain.MovieListItem{{ID: 1, Title: long, AddedAt: day}},
		Counts:      domain.MovieCounts{WantToWatch: 1},
	})

	assert.Contains(t, msg.Text, "1. "+strings.Repeat("a", TextTitleLimit)+Ellipsis+"\n")
	assert.NotContains(t, msg.Text, long)
	assert.Equal(t, "✅ Watched '"+strings.Repeat("a", ButtonTitleLimit)+Ellipsis+"'", msg.Keyboard[0][0].Label)
}

func TestWatched_ListsDatesAndDeleteButtons(t *testing.T) {
	msg := Watched(&service.WatchedList{Movies: listItems(7)})

	assert.Contains(t, msg.Text, "7. Movie 7 (2026-03-14)")
	assert.Contains(t, msg.Text, "Watched in total: 7")
	assert.Equal(t, MaxMutationButtons, countMutations(msg.Keyboard))
	for _, row := range msg.Keyboard[:MaxMutationButtons] {
		assert.Equal(t, domain.ActionDelete, row[0].Action.Kind)
	}
}

func TestAllMovies_PrivacyMarkersAndToggles(t *testing.T) {
	all := &service.AllMovies{
		Movies: []*domain.MovieSummary{
			{ID: 2, Title: "Hidden", Status: domain.StatusWatched, AddedAt: day, IsPublic: false},
			{ID: 1, Title: "Shown", Status: domain.StatusWantToWatch, AddedAt: day, IsPublic: true},
		},
		Hidden: 4,
		Counts: domain.MovieCounts{WantToWatch: 3, Watched: 3},
	}

	msg := AllMovies(all)

	assert.Contains(t, msg.Text, "1. ✅ 🔒 Hidden [id 2] (2026-03-14)")
	assert.Contains(t, msg.Text, "2. 📝 👁️ Shown [id 1] (2026-03-14)")
	assert.Contains(t, msg.Text, "... and 4 more")
	assert.Contains(t, msg.Text, "• Total: 6")
	require.Len(t, msg.Keyboard, 3)
	assert.Equal(t, Button{Label: "👁️ Show 'Hidden'", Action: domain.PrivacyAction(2)}, msg.Keyboard[0][0])
	assert.Equal(t, Button{Label: "🔒 Hide 'Shown'", Action: domain.PrivacyAction(1)}, msg.Keyboard[1][0])
}

func TestPublicFeed_GroupsAndStats(t *testing.T) {
	feed := &service.PublicFeed{
		Groups: []service.FeedGroup{
			{Name: "Anna", Total: 2, WantToWatch: 1, Watched: 1},
			{Name: service.AnonymousName, Total: 1, WantToWatch: 1},
		},
		Recent: []*domain.PublicFeedEntry{
			{ID: 3, Title: "Alien", Status: domain.StatusWantToWatch, AddedAt: day},
			{ID: 2, Title: "Inception", Status: domain.StatusWatched, AddedAt: day, FirstName: "Anna"},
		},
		Total:        3,
		WantToWatch:  2,
		Watched:      1,
		Participants: 2,
	}

	msg := PublicFeed(feed)

	assert.Contains(t, msg.Text, "👤 Anna (total: 2)\n  📝 Wants to watch: 1\n  ✅ Watched: 1\n")
	assert.Contains(t, msg.Text, "👤 Anonymous (total: 1)\n  📝 Wants to watch: 1\n\n")
	assert.Contains(t, msg.Text, "1. 📝 Alien (by Anonymous)")
	assert.Contains(t, msg.Text, "2. ✅ Inception (by Anna)")
	assert.Contains(t, msg.Text, "• Participants: 2")
	assert.Equal(t, 0, countMutations(msg.Keyboard))
	assert.Len(t, msg.Keyboard, 1)
}

func TestPublicFeed_Empty(t *testing.T) {
	msg := PublicFeed(&service.PublicFeed{})

	assert.Contains(t, msg.Text, "Nobody has added public movies yet.")
	assert.NotContains(t, msg.Text, "Recently added")
	assert.Contains(t, msg.Text, "• Movies: 0")
}

func TestPublicList_Compact(t *testing.T) {
	recent := make([]*domain.PublicFeedEntry, service.FeedRecentCap)
	for i := range recent {
		recent[i] = &domain.PublicFeedEntry{ID: int64(i + 1), Title: "T", Status: domain.StatusWantToWatch, AddedAt: day, FirstName: "Bo"}
	}

	msg := PublicList(&service.PublicFeed{Recent: recent, Total: 14, WantToWatch: 14})

	assert.Contains(t, msg.Text, "10. 📝 T (by Bo) 2026-03-14")
	assert.Contains(t, msg.Text, "... and 4 more")
	assert.Contains(t, msg.Text, "📊 Public movies: 14")
	assert.Len(t, msg.Keyboard, 1)
}

func TestOverview_RespectsBudget(t *testing.T) {
	overview := &service.ListsOverview{
		Counts:      domain.MovieCounts{WantToWatch: 9, Watched: 4},
		WantToWatch: listItems(3),
		Watched:     listItems(3),
	}

	msg := Overview(overview)

	assert.Contains(t, msg.Text, "📝 Want to watch: 9")
	assert.Contains(t, msg.Text, "✅ Watched: 4")
	assert.Equal(t, MaxMutationButtons, countMutations(msg.Keyboard))
	assert.Equal(t, 1, countNavigationRows(msg.Keyboard))
	nav := msg.Keyboard[len(msg.Keyboard)-1]
	assert.Contains(t, nav, btnHelp)
}

func TestAdded(t *testing.T) {
	msg := Added(&domain.MovieRef{ID: 12, Title: "Inception", Status: domain.StatusWantToWatch, IsPublic: true})

	assert.Contains(t, msg.Text, "\"Inception\" added")
	assert.Contains(t, msg.Text, "[id 12]")
	require.Len(t, msg.Keyboard, 3)
	assert.Equal(t, "watch_12", msg.Keyboard[0][0].Action.String())
	assert.Equal(t, "delete_12", msg.Keyboard[1][0].Action.String())
	assert.Equal(t, "show_lists", msg.Keyboard[2][0].Action.String())
}

func TestPrivacyChanged(t *testing.T) {
	movie := &domain.MovieRef{ID: 1, Title: "Up"}

	msg := PrivacyChanged(&service.PrivacyChange{Movie: movie, IsPublic: false})
	assert.Contains(t, msg.Text, "\"Up\" is now private!")
	assert.Contains(t, msg.Text, "🔒 Private")

	msg = PrivacyChanged(&service.PrivacyChange{Movie: movie, IsPublic: true})
	assert.Contains(t, msg.Text, "\"Up\" is now public!")
	assert.Contains(t, msg.Text, "👁️ Public")
}

func TestStaticMessages(t *testing.T) {
	assert.Contains(t, Welcome("Anna").Text, "Hi, Anna!")
	assert.Contains(t, Welcome("").Text, "Hi, there!")
	for _, cmd := range []string{"/add", "/my_movies", "/watched", "/all_movies", "/public", "/private", "/start"} {
		assert.Contains(t, Help().Text, cmd)
	}
	assert.Empty(t, Help().Keyboard)
	require.Len(t, HelpMenu().Keyboard, 1)
	assert.Equal(t, domain.ActionShowLists, HelpMenu().Keyboard[0][0].Action.Kind)
	assert.Contains(t, PrivacyUsage().Text, "/private 5")
}
