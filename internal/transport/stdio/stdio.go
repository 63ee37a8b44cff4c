package stdio

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/iamasit07/four-in-a-row-bot/internal/service/session"
	"github.com/rs/zerolog/log"
)

const maxLineBytes = 64 * 1024

// Run feeds every line of r to sess and writes each reply to w followed by
// a newline. A rejected line is logged and the loop continues. Run returns
// when r is exhausted, ctx is done, or w fails.
func Run(ctx context.Context, r io.Reader, w io.Writer, sess *session.Session) error {
	scan := bufio.NewScanner(r)
	scan.Buffer(make([]byte, 0, 4096), maxLineBytes)
	out := bufio.NewWriter(w)

	for scan.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scan.Text()
		reply, err := sess.Handle(ctx, line)
		if err != nil {
			log.Warn().Err(err).Str("line", line).Msg("rejected line")
			continue
		}
		if reply.Line == "" {
			continue
		}

		if _, err := fmt.Fprintln(out, reply.Line); err != nil {
			return fmt.Errorf("failed to write reply: %w", err)
		}
		if err := out.Flush(); err != nil {
			return fmt.Errorf("failed to flush reply: %w", err)
		}
	}
	return scan.Err()
}
