package presenter

import (
	"fmt"
	"strings"
	"time"

	"github.com/dafibh/cinelist/cinelist-backend/internal/domain"
	"github.com/dafibh/cinelist/cinelist-backend/internal/service"
)

const dateLayout = "2006-01-02"

func statusIcon(status domain.MovieStatus) string {
	if status == domain.StatusWatched {
		return "✅"
	}
	return "📝"
}

func privacyIcon(isPublic bool) string {
	if isPublic {
		return "👁️"
	}
	return "🔒"
}

func textTitle(title string) string {
	return TruncateTitle(title, TextTitleLimit)
}

func buttonTitle(title string) string {
	return TruncateTitle(title, ButtonTitleLimit)
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func writeMore(b *strings.Builder, hidden int) {
	if hidden > 0 {
		fmt.Fprintf(b, "... and %d more\n", hidden)
	}
}

// MyLists renders both of the owner's lists with true totals
func MyLists(lists *service.MyLists) Message {
	var b strings.Builder
	b.WriteString("🎬 Your movie lists\n\n")

	b.WriteString("📝 Want to watch:\n")
	if len(lists.WantToWatch) == 0 {
		b.WriteString("The list is empty. Add your first movie!\n")
	}
	for i, m := range lists.WantToWatch {
		fmt.Fprintf(&b, "%d. %s\n", i+1, textTitle(m.Title))
	}
	writeMore(&b, lists.Counts.WantToWatch-len(lists.WantToWatch))

	b.WriteString("\n✅ Watched:\n")
	if len(lists.Watched) == 0 {
		b.WriteString("The list is empty. Watch your first movie!\n")
	}
	for i, m := range lists.Watched {
		fmt.Fprintf(&b, "%d. %s\n", i+1, textTitle(m.Title))
	}
	writeMore(&b, lists.Counts.Watched-len(lists.Watched))

	b.WriteString("\n📊 Stats:\n")
	fmt.Fprintf(&b, "• Want to watch: %d\n", lists.Counts.WantToWatch)
	fmt.Fprintf(&b, "• Watched: %d\n", lists.Counts.Watched)
	fmt.Fprintf(&b, "• Total: %d", lists.Counts.Total())

	var kb keyboard
	for _, m := range lists.WantToWatch {
		if !kb.mutation(fmt.Sprintf("✅ Watched '%s'", buttonTitle(m.Title)), domain.WatchAction(m.ID)) {
			break
		}
	}
	for _, m := range lists.Watched {
		if !kb.mutation(fmt.Sprintf("🗑️ Delete '%s'", buttonTitle(m.Title)), domain.DeleteAction(m.ID)) {
			break
		}
	}
	kb.navigation(btnAllMovies, btnPublic, btnAdd)

	return Message{Text: b.String(), Keyboard: kb.build()}
}

// Watched renders every watched movie of the owner
func Watched(list *service.WatchedList) Message {
	var b strings.Builder
	b.WriteString("✅ Watched movies:\n\n")

	if len(list.Movies) == 0 {
		b.WriteString("No watched movies yet.\n")
		b.WriteString("Add a movie with /add and mark it as watched!\n")
	}
	for i, m := range list.Movies {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, textTitle(m.Title), formatDate(m.AddedAt))
	}
	fmt.Fprintf(&b, "\n📊 Watched in total: %d", len(list.Movies))

	var kb keyboard
	for _, m := range list.Movies {
		if !kb.mutation(fmt.Sprintf("🗑️ Delete '%s'", buttonTitle(m.Title)), domain.DeleteAction(m.ID)) {
			break
		}
	}
	kb.navigation(btnMyLists, btnAllMovies)

	return Message{Text: b.String(), Keyboard: kb.build()}
}

// AllMovies renders the combined list with privacy markers and privacy toggle buttons
func AllMovies(all *service.AllMovies) Message {
	var b strings.Builder
	b.WriteString("🎬 All your movies:\n\n")

	if len(all.Movies) == 0 {
		b.WriteString("You have no movies yet.\n")
		b.WriteString("Add one with /add or just send me its title!\n")
	}
	for i, m := range all.Movies {
		fmt.Fprintf(&b, "%d. %s %s %s [id %d] (%s)\n",
			i+1, statusIcon(m.Status), privacyIcon(m.IsPublic), textTitle(m.Title), m.ID, formatDate(m.AddedAt))
	}
	writeMore(&b, all.Hidden)

	b.WriteString("\n📊 Stats:\n")
	fmt.Fprintf(&b, "• Total: %d\n", all.Counts.Total())
	fmt.Fprintf(&b, "• Want to watch: %d\n", all.Counts.WantToWatch)
	fmt.Fprintf(&b, "• Watched: %d", all.Counts.Watched)

	var kb keyboard
	for _, m := range all.Movies {
		label := fmt.Sprintf("🔒 Hide '%s'", buttonTitle(m.Title))
		if !m.IsPublic {
			label = fmt.Sprintf("👁️ Show '%s'", buttonTitle(m.Title))
		}
		if !kb.mutation(label, domain.PrivacyAction(m.ID)) {
			break
		}
	}
	kb.navigation(btnMyLists, btnWatched, btnAdd)

	return Message{Text: b.String(), Keyboard: kb.build()}
}

// PublicFeed renders the grouped cross-owner feed
func PublicFeed(feed *service.PublicFeed) Message {
	var b strings.Builder
	b.WriteString("🎬 Public movie list\n\n")
	b.WriteString("👁️ Everything here is visible to all users\n\n")

	if feed.Total == 0 {
		b.WriteString("Nobody has added public movies yet.\n")
		b.WriteString("Every movie you add is public automatically!\n")
	}
	for _, g := range feed.Groups {
		fmt.Fprintf(&b, "👤 %s (total: %d)\n", textTitle(g.Name), g.Total)
		if g.WantToWatch > 0 {
			fmt.Fprintf(&b, "  📝 Wants to watch: %d\n", g.WantToWatch)
		}
		if g.Watched > 0 {
			fmt.Fprintf(&b, "  ✅ Watched: %d\n", g.Watched)
		}
		b.WriteString("\n")
	}
	if len(feed.Recent) > 0 {
		b.WriteString("📅 Recently added:\n")
		for i, e := range feed.Recent {
			fmt.Fprintf(&b, "%d. %s %s (by %s)\n", i+1, statusIcon(e.Status), textTitle(e.Title), service.FeedDisplayName(e))
		}
	}

	b.WriteString("\n📊 Public stats:\n")
	fmt.Fprintf(&b, "• Movies: %d\n", feed.Total)
	fmt.Fprintf(&b, "• Want to watch: %d\n", feed.WantToWatch)
	fmt.Fprintf(&b, "• Watched: %d\n", feed.Watched)
	fmt.Fprintf(&b, "• Participants: %d", feed.Participants)

	var kb keyboard
	kb.navigation(btnMyLists, btnAdd)
	return Message{Text: b.String(), Keyboard: kb.build()}
}

// PublicList renders the compact recent feed shown from the public list button
func PublicList(feed *service.PublicFeed) Message {
	var b strings.Builder
	b.WriteString("👁️ Public list\n\n")

	if feed.Total == 0 {
		b.WriteString("No public movies yet.\n")
	}
	for i, e := range feed.Recent {
		fmt.Fprintf(&b, "%d. %s %s (by %s) %s\n",
			i+1, statusIcon(e.Status), textTitle(e.Title), service.FeedDisplayName(e), formatDate(e.AddedAt))
	}
	writeMore(&b, feed.Total-len(feed.Recent))

	fmt.Fprintf(&b, "\n📊 Public movies: %d", feed.Total)
	fmt.Fprintf(&b, "\n📝 Want to watch: %d", feed.WantToWatch)
	fmt.Fprintf(&b, "\n✅ Watched: %d", feed.Watched)

	var kb keyboard
	kb.navigation(btnMyLists, btnAllMovies, btnAdd)
	return Message{Text: b.String(), Keyboard: kb.build()}
}

// Overview renders the lists menu with quick actions for the newest movies
func Overview(overview *service.ListsOverview) Message {
	var b strings.Builder
	b.WriteString("📋 Your lists\n\n")
	fmt.Fprintf(&b, "📝 Want to watch: %d\n", overview.Counts.WantToWatch)
	fmt.Fprintf(&b, "✅ Watched: %d\n\n", overview.Counts.Watched)
	b.WriteString("Choose an action:")

	var kb keyboard
	for _, m := range overview.WantToWatch {
		if !kb.mutation("✅ "+buttonTitle(m.Title), domain.WatchAction(m.ID)) {
			break
		}
	}
	for _, m := range overview.Watched {
		if !kb.mutation("🗑️ "+buttonTitle(m.Title), domain.DeleteAction(m.ID)) {
			break
		}
	}
	kb.navigation(btnAllMovies, btnWatched, btnPublic, btnAdd, btnHelp)

	return Message{Text: b.String(), Keyboard: kb.build()}
}

// Added confirms a new movie
func Added(movie *domain.MovieRef) Message {
	text := fmt.Sprintf("✅ \"%s\" added to your want-to-watch list! [id %d]\n"+
		"👁️ The movie is visible to everyone in the public list.\n\n"+
		"Press \"✅ Watched\" once you have seen it.",
		textTitle(movie.Title), movie.ID)

	var kb keyboard
	kb.mutation("✅ Watched", domain.WatchAction(movie.ID))
	kb.mutation("🗑️ Delete", domain.DeleteAction(movie.ID))
	kb.navigation(btnMyLists)

	return Message{Text: text, Keyboard: kb.build()}
}

// MarkedWatched confirms a watched transition
func MarkedWatched(movie *domain.MovieRef) Message {
	var kb keyboard
	kb.navigation(btnMyLists, btnAllMovies)
	return Message{
		Text:     fmt.Sprintf("🎉 Great! \"%s\" is marked as watched!\n\nWhat next?", textTitle(movie.Title)),
		Keyboard: kb.build(),
	}
}

// Deleted confirms a deletion
func Deleted() Message {
	var kb keyboard
	kb.navigation(btnMyLists, btnAllMovies)
	return Message{Text: "🗑️ Movie removed from your list!", Keyboard: kb.build()}
}

// PrivacyChanged confirms a visibility flip
func PrivacyChanged(change *service.PrivacyChange) Message {
	state, marker := "private", "🔒 Private"
	if change.IsPublic {
		state, marker = "public", "👁️ Public"
	}

	var kb keyboard
	kb.navigation(btnAllMovies, btnMyLists)
	return Message{
		Text:     fmt.Sprintf("✅ \"%s\" is now %s!\n\n📝 Status: %s", textTitle(change.Movie.Title), state, marker),
		Keyboard: kb.build(),
	}
}
