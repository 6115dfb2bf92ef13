package bot

import "strings"

// ParseCommand splits "/cmd@botname arg1 arg2" into its lowercase command name and
// its arguments joined by single spaces. ok is false for text that is not a command.
func ParseCommand(text string) (command string, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}

	fields := strings.Fields(text)
	command = strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(command, '@'); at >= 0 {
		command = command[:at]
	}
	return strings.ToLower(command), strings.Join(fields[1:], " "), true
}
