package presenter

import (
	"unicode/utf8"

	"github.com/dafibh/cinelist/cinelist-backend/internal/domain"
)

// Title budgets in runes
const (
	TextTitleLimit   = 64
	ButtonTitleLimit = 20
	Ellipsis         = "..."
)

// MaxMutationButtons bounds the watch/delete/privacy buttons on one screen
const MaxMutationButtons = 5

// Button is a single inline button
type Button struct {
	Label  string
	Action domain.Action
}

// Message is a text block with an optional inline keyboard
type Message struct {
	Text     string
	Keyboard [][]Button
}

// TruncateTitle shortens title to limit runes, appending an ellipsis when cut
func TruncateTitle(title string, limit int) string {
	if utf8.RuneCountInString(title) <= limit {
		return title
	}
	runes := []rune(title)
	return string(runes[:limit]) + Ellipsis
}

// keyboard collects mutation rows up to the button budget and a single navigation row
type keyboard struct {
	rows      [][]Button
	mutations int
	nav       []Button
}

// mutation appends a one-button row, reporting false once the budget is spent
func (k *keyboard) mutation(label string, action domain.Action) bool {
	if k.mutations >= MaxMutationButtons {
		return false
	}
	k.rows = append(k.rows, []Button{{Label: label, Action: action}})
	k.mutations++
	return true
}

// navigation replaces the navigation row
func (k *keyboard) navigation(buttons ...Button) {
	k.nav = buttons
}

func (k *keyboard) build() [][]Button {
	rows := k.rows
	if len(k.nav) > 0 {
		rows = append(rows, k.nav)
	}
	return rows
}

func navButton(label string, kind domain.ActionKind) Button {
	return Button{Label: label, Action: domain.NavAction(kind)}
}

var (
	btnMyLists   = navButton("📋 My lists", domain.ActionShowLists)
	btnAllMovies = navButton("🎬 All movies", domain.ActionAllMovies)
	btnWatched   = navButton("✅ Watched", domain.ActionWatchedOnly)
	btnPublic    = navButton("👁️ Public list", domain.ActionPublicList)
	btnAdd       = navButton("➕ Add movie", domain.ActionAddNewMovie)
	btnHelp      = navButton("❓ Help", domain.ActionHelp)
)
