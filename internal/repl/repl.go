// Package repl runs the line-oriented chat loop.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"qabot/internal/domain"
)

const (
	exitSentinel = "exit"
	promptText   = "You: "
	emptyReply   = "Please type something or 'exit' to quit."
	goodbye      = "Goodbye!"
)

// Run reads lines from in until EOF, ctx cancellation or the "exit"
// sentinel, answering each non-blank line on out.
func Run(ctx context.Context, bot domain.Answerer, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprint(out, promptText); err != nil {
			return err
		}
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.EqualFold(trimmed, exitSentinel):
			_, err := fmt.Fprintln(out, "Bot: "+goodbye)
			return err
		case trimmed == "":
			if _, err := fmt.Fprintln(out, "Bot: "+emptyReply); err != nil {
				return err
			}
		default:
			if _, err := fmt.Fprintln(out, "Bot: "+bot.Answer(line)); err != nil {
				return err
			}
		}
	}
}
