package input

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Enter is the line posted when the user presses Enter on an empty line.
const Enter = ""

// Listen reads lines from r and posts each one, trimmed, to mb until r is exhausted or
// ctx is done. It returns nil at EOF.
//
// A read blocked on r is not interrupted by ctx; callers pass os.Stdin and let the
// goroutine die with the process.
func Listen(ctx context.Context, r io.Reader, mb *Mailbox[string]) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		mb.Post(strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	return nil
}
