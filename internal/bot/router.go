package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dafibh/cinelist/cinelist-backend/internal/domain"
	"github.com/dafibh/cinelist/cinelist-backend/internal/presenter"
	"github.com/dafibh/cinelist/cinelist-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// Slash commands
const (
	CommandStart     = "start"
	CommandHelp      = "help"
	CommandAdd       = "add"
	CommandMyMovies  = "my_movies"
	CommandWatched   = "watched"
	CommandAllMovies = "all_movies"
	CommandPublic    = "public"
	CommandPrivate   = "private"
)

// Event is an inbound message or button press.
// Exactly one of Text and ActionID is set.
type Event struct {
	SenderID        int64
	SenderUsername  string
	SenderFirstName string
	Text            string
	ActionID        string
}

// IsAction reports whether the event is a button press
func (e Event) IsAction() bool {
	return e.ActionID != ""
}

// Response is the outbound message. Edit is set when the event was a button press,
// in which case the message carrying the button is replaced.
type Response struct {
	Text     string
	Keyboard [][]presenter.Button
	Edit     bool
}

// Router maps inbound events to MovieService calls and renders the results
type Router struct {
	movieService *service.MovieService
}

// NewRouter creates a new Router
func NewRouter(movieService *service.MovieService) *Router {
	return &Router{movieService: movieService}
}

// Handle processes one event. It returns nil only for unknown button actions,
// which are ignored. Every other event, including failures, yields a response.
func (r *Router) Handle(ctx context.Context, event Event) (resp *Response) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().
				Int64("sender_id", event.SenderID).
				Str("panic", fmt.Sprint(rec)).
				Msg("Recovered panic while handling event")
			resp = respond(event, presenter.Failure())
		}
	}()

	user := &domain.User{ID: event.SenderID, Username: event.SenderUsername, FirstName: event.SenderFirstName}
	if err := r.movieService.RegisterUser(ctx, user); err != nil {
		log.Error().Err(err).Int64("sender_id", event.SenderID).Msg("Failed to register user")
		return respond(event, presenter.Failure())
	}

	if event.IsAction() {
		action := domain.ParseAction(event.ActionID)
		if action.Kind == domain.ActionUnknown {
			log.Debug().Int64("sender_id", event.SenderID).Str("action_id", event.ActionID).Msg("Ignoring unknown action")
			return nil
		}
		return respond(event, r.handleAction(ctx, event.SenderID, action))
	}

	return respond(event, r.handleText(ctx, event))
}

func respond(event Event, msg presenter.Message) *Response {
	return &Response{Text: msg.Text, Keyboard: msg.Keyboard, Edit: event.IsAction()}
}

func (r *Router) handleText(ctx context.Context, event Event) presenter.Message {
	command, args, ok := ParseCommand(event.Text)
	if !ok {
		return r.addMovie(ctx, event.SenderID, event.Text)
	}

	log.Debug().Int64("sender_id", event.SenderID).Str("command", command).Msg("Handling command")

	switch command {
	case CommandStart:
		return presenter.Welcome(event.SenderFirstName)
	case CommandHelp:
		return presenter.Help()
	case CommandAdd:
		if args == "" {
			return presenter.AddUsage()
		}
		return r.addMovie(ctx, event.SenderID, args)
	case CommandMyMovies:
		lists, err := r.movieService.ShowMine(ctx, event.SenderID)
		if err != nil {
			return failure(event.SenderID, err)
		}
		return presenter.MyLists(lists)
	case CommandWatched:
		return r.showWatched(ctx, event.SenderID)
	case CommandAllMovies:
		return r.showAll(ctx, event.SenderID)
	case CommandPublic:
		feed, err := r.movieService.ShowPublicFeed(ctx)
		if err != nil {
			return failure(event.SenderID, err)
		}
		return presenter.PublicFeed(feed)
	case CommandPrivate:
		if args == "" {
			return presenter.PrivacyUsage()
		}
		change, err := r.movieService.TogglePrivacy(ctx, event.SenderID, strings.Fields(args)[0])
		if err != nil {
			return errorMessage(event.SenderID, err, presenter.PrivacyNotFound())
		}
		return presenter.PrivacyChanged(change)
	default:
		return presenter.UnknownCommand()
	}
}

func (r *Router) handleAction(ctx context.Context, senderID int64, action domain.Action) presenter.Message {
	log.Debug().Int64("sender_id", senderID).Str("action", action.String()).Msg("Handling action")

	switch action.Kind {
	case domain.ActionShowLists:
		overview, err := r.movieService.Overview(ctx, senderID)
		if err != nil {
			return failure(senderID, err)
		}
		return presenter.Overview(overview)
	case domain.ActionAllMovies:
		return r.showAll(ctx, senderID)
	case domain.ActionWatchedOnly:
		return r.showWatched(ctx, senderID)
	case domain.ActionPublicList:
		feed, err := r.movieService.ShowPublicFeed(ctx)
		if err != nil {
			return failure(senderID, err)
		}
		return presenter.PublicList(feed)
	case domain.ActionAddNewMovie:
		return presenter.AddPrompt()
	case domain.ActionHelp:
		return presenter.HelpMenu()
	case domain.ActionWatch:
		movie, err := r.movieService.MarkWatched(ctx, senderID, action.MovieID)
		if err != nil {
			return errorMessage(senderID, err, presenter.WatchNotFound())
		}
		return presenter.MarkedWatched(movie)
	case domain.ActionDelete:
		if err := r.movieService.DeleteMovie(ctx, senderID, action.MovieID); err != nil {
			return errorMessage(senderID, err, presenter.DeleteNotFound())
		}
		return presenter.Deleted()
	case domain.ActionPrivacy:
		change, err := r.movieService.TogglePrivacyByID(ctx, senderID, action.MovieID)
		if err != nil {
			return errorMessage(senderID, err, presenter.PrivacyNotFound())
		}
		return presenter.PrivacyChanged(change)
	default:
		// ParseAction only yields the kinds above
		return presenter.Failure()
	}
}

func (r *Router) addMovie(ctx context.Context, senderID int64, title string) presenter.Message {
	movie, err := r.movieService.AddMovie(ctx, senderID, title)
	if err != nil {
		return errorMessage(senderID, err, presenter.Failure())
	}
	return presenter.Added(movie)
}

func (r *Router) showWatched(ctx context.Context, senderID int64) presenter.Message {
	list, err := r.movieService.ShowWatched(ctx, senderID)
	if err != nil {
		return failure(senderID, err)
	}
	return presenter.Watched(list)
}

func (r *Router) showAll(ctx context.Context, senderID int64) presenter.Message {
	all, err := r.movieService.ShowAll(ctx, senderID)
	if err != nil {
		return failure(senderID, err)
	}
	return presenter.AllMovies(all)
}

// errorMessage turns validation and not-found errors into corrective messages.
// Anything else is logged and answered generically.
func errorMessage(senderID int64, err error, notFound presenter.Message) presenter.Message {
	switch {
	case errors.Is(err, domain.ErrMovieTitleEmpty):
		return presenter.AddUsage()
	case errors.Is(err, domain.ErrInvalidMovieID):
		return presenter.InvalidMovieID()
	case errors.Is(err, domain.ErrNotFound):
		return notFound
	default:
		return failure(senderID, err)
	}
}

func failure(senderID int64, err error) presenter.Message {
	log.Error().Err(err).Int64("sender_id", senderID).Msg("Failed to handle event")
	return presenter.Failure()
}
