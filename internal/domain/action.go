package domain

import (
	"strconv"
	"strings"
)

// ActionKind identifies what an inline button asks for
type ActionKind string

const (
	ActionUnknown     ActionKind = ""
	ActionShowLists   ActionKind = "show_lists"
	ActionAllMovies   ActionKind = "all_movies"
	ActionWatchedOnly ActionKind = "watched_only"
	ActionPublicList  ActionKind = "public_list"
	ActionAddNewMovie ActionKind = "add_new_movie"
	ActionHelp        ActionKind = "help_btn"
	ActionWatch       ActionKind = "watch"
	ActionDelete      ActionKind = "delete"
	ActionPrivacy     ActionKind = "private"
)

// Action is an inline button action decoded once at the router boundary.
// MovieID is set only for the watch, delete and privacy kinds.
type Action struct {
	Kind    ActionKind
	MovieID int64
}

var navigationKinds = map[ActionKind]struct{}{
	ActionShowLists:   {},
	ActionAllMovies:   {},
	ActionWatchedOnly: {},
	ActionPublicList:  {},
	ActionAddNewMovie: {},
	ActionHelp:        {},
}

var movieKinds = map[ActionKind]struct{}{
	ActionWatch:   {},
	ActionDelete:  {},
	ActionPrivacy: {},
}

// NavAction returns an action that carries no movie id
func NavAction(kind ActionKind) Action {
	return Action{Kind: kind}
}

// WatchAction returns the action marking a movie as watched
func WatchAction(movieID int64) Action {
	return Action{Kind: ActionWatch, MovieID: movieID}
}

// DeleteAction returns the action deleting a movie
func DeleteAction(movieID int64) Action {
	return Action{Kind: ActionDelete, MovieID: movieID}
}

// PrivacyAction returns the action toggling a movie's visibility
func PrivacyAction(movieID int64) Action {
	return Action{Kind: ActionPrivacy, MovieID: movieID}
}

// HasMovie reports whether the action targets a single movie
func (a Action) HasMovie() bool {
	_, ok := movieKinds[a.Kind]
	return ok
}

// String encodes the action as a button identifier, e.g. "watch_42"
func (a Action) String() string {
	if a.HasMovie() {
		return string(a.Kind) + "_" + strconv.FormatInt(a.MovieID, 10)
	}
	return string(a.Kind)
}

// ParseAction decodes a button identifier. Anything that is not a known
// navigation id or exactly "<verb>_<positive id>" decodes to ActionUnknown.
func ParseAction(raw string) Action {
	kind := ActionKind(raw)
	if _, ok := navigationKinds[kind]; ok {
		return Action{Kind: kind}
	}

	parts := strings.Split(raw, "_")
	if len(parts) != 2 {
		return Action{Kind: ActionUnknown}
	}
	kind = ActionKind(parts[0])
	if _, ok := movieKinds[kind]; !ok {
		return Action{Kind: ActionUnknown}
	}
	id, err := ParseMovieID(parts[1])
	if err != nil || strconv.FormatInt(id, 10) != parts[1] {
		return Action{Kind: ActionUnknown}
	}
	return Action{Kind: kind, MovieID: id}
}
