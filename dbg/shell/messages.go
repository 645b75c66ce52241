package shell

import "fmt"

// Message keys.
const (
	MsgProgramExecutableMissing = "PROGRAM_EXECUTABLE_MISSING"
	MsgShellIllegalSwitch       = "SHELL_ILLEGAL_SWITCH"
	MsgArgumentsTooLong         = "PROGRAM_ARGUMENTS_TOO_LONG"
)

var messages = map[string]string{
	MsgProgramExecutableMissing: "Illegal command: %s.\n",
	MsgShellIllegalSwitch:       "Illegal switch: %s.\n",
	MsgArgumentsTooLong:         "Arguments for %s are too long.\n",
}

// Message returns the format string registered under key. Unknown keys come
// back as a marker so a missing entry is visible on the console.
func Message(key string) string {
	if m, ok := messages[key]; ok {
		return m
	}
	return fmt.Sprintf("Message not found: %s\n", key)
}

// Messagef formats the message registered under key with args.
func Messagef(key string, args ...interface{}) string {
	return fmt.Sprintf(Message(key), args...)
}
