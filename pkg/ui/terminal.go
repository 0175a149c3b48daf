package ui

import (
	"fmt"
	"io"
	"os"
	"time"
)

// ASCII logo for the application
const ASCIILogo = `
  _   _           _           _           _
 | |_(_)_ __   __| | ___ _ __| |__   ___ | |_
 | __| | '_ \ / _' |/ _ \ '__| '_ \ / _ \| __|
 | |_| | | | | (_| |  __/ |  | |_) | (_) | |_
  \__|_|_| |_|\__,_|\___|_|  |_.__/ \___/ \__|
`

// BotName prefixes every status line
const BotName = "TinderBot"

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// Output is where the Print helpers write; tests may swap it
var Output io.Writer = os.Stdout

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		return fmt.Sprintf(colorString, text)
	}
}

// PrintLogo prints the ASCII logo with color
func PrintLogo() {
	fmt.Fprint(Output, Magenta(ASCIILogo))
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(Output, Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(Output, Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	fmt.Fprintln(Output, Green(msg))
}

// PrintInfo prints a label and value pair
func PrintInfo(label string, value string) {
	fmt.Fprintf(Output, "%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(Output, Yellow(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(Output, Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	fmt.Fprintln(Output, Magenta(msg))
}

// PrintStatus prints a timestamped status line, "[15:04:05] TinderBot: msg"
func PrintStatus(format string, args ...interface{}) {
	stamp := Dim("[" + time.Now().Format("15:04:05") + "]")
	fmt.Fprintf(Output, "%s %s: %s\n", stamp, Cyan(BotName), fmt.Sprintf(format, args...))
}
