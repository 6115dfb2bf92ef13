package presenter

import (
	"fmt"

	"github.com/dafibh/cinelist/cinelist-backend/internal/domain"
)

const helpText = `📋 Available commands:

🎬 Basics:
/start - start using the bot
/add <title> - add a movie to your list (public by default)
/my_movies - show your lists
/watched - show watched movies only
/all_movies - show all your movies with their ids
/public - show the shared public list
/private <id> - hide a movie from other users

👁️ About public movies:
• Every movie you add is visible to all users
• Use /private <id> to hide a movie
• Sending /private <id> again makes it public again

🗑️ Deleting movies:
• Press "🗑️ Delete" under any movie
• Works for both want-to-watch and watched movies`

const helpMenuText = `📋 Managing your lists:

👁️ Public movies:
• Every movie you add is visible to all users
• Use /private <id> to hide a movie
• Icons: 👁️ public, 🔒 private

🎬 Main actions:
• Press "✅ Watched" under a movie
• Use the navigation buttons to switch lists
• Send a movie title to add it

🗑️ Deleting movies:
• "🗑️ Delete" is available under every movie
• Deleting cannot be undone!`

// Welcome greets a user on /start
func Welcome(firstName string) Message {
	if firstName == "" {
		firstName = "there"
	}
	return Message{Text: fmt.Sprintf(`🎬 Hi, %s!

I keep your list of movies to watch.

👁️ Important: every movie you add is visible to all users in the public list!

📌 How it works:
1. Send me a movie title
2. I add it to "Want to watch" (and to the public list)
3. After watching, press "✅ Watched"
4. To hide a movie from others, use /private <movie_id>

%s

🎥 Start right now: send me a movie title!`, TruncateTitle(firstName, TextTitleLimit), helpText)}
}

// Help lists the commands
func Help() Message {
	return Message{Text: helpText}
}

// HelpMenu is the help screen reached from the lists menu
func HelpMenu() Message {
	var kb keyboard
	kb.navigation(Button{Label: "📋 Back to lists", Action: domain.NavAction(domain.ActionShowLists)})
	return Message{Text: helpMenuText, Keyboard: kb.build()}
}

// AddPrompt asks for a title after the add button
func AddPrompt() Message {
	return Message{Text: "📝 Send me the title of the movie you want to add.\n\n" +
		"👁️ It will be added to the public list automatically"}
}

// AddUsage answers /add without a title
func AddUsage() Message {
	return Message{Text: "📝 Please give a movie title.\nExample: /add Inception"}
}

// PrivacyUsage answers /private without an id
func PrivacyUsage() Message {
	return Message{Text: "📝 Usage: /private <movie_id>\n\n" +
		"Example: /private 5\n\n" +
		"Use /all_movies to find a movie's id"}
}

// InvalidMovieID answers a non-numeric movie id
func InvalidMovieID() Message {
	return Message{Text: "❌ Movie id must be a number!"}
}

// WatchNotFound answers a mark-watched on a missing movie
func WatchNotFound() Message {
	return Message{Text: "❌ Could not find the movie. It may have been deleted."}
}

// DeleteNotFound answers a delete on a missing movie
func DeleteNotFound() Message {
	return Message{Text: "❌ Could not delete the movie."}
}

// PrivacyNotFound answers a privacy toggle on a missing movie
func PrivacyNotFound() Message {
	return Message{Text: "❌ Movie not found or you have no access to it!"}
}

// Failure is the generic answer to an unexpected error
func Failure() Message {
	return Message{Text: "⚠️ Something went wrong. Please try again later."}
}

// UnknownCommand answers an unrecognized slash command
func UnknownCommand() Message {
	return Message{Text: "🤔 Unknown command. Send /help to see what I can do."}
}
