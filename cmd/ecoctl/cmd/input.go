package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var readPassword = term.ReadPassword

// prompter reads secrets without echo when stdin is a terminal and falls back
// to one line per prompt otherwise, so passwords can be piped in.
type prompter struct {
	in     io.Reader
	w      io.Writer
	reader *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{in: cmd.InOrStdin(), w: cmd.ErrOrStderr()}
}

func (p *prompter) password(label string) (string, error) {
	if _, err := fmt.Fprintf(p.w, "%s: ", label); err != nil {
		return "", err
	}

	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pw, err := readPassword(int(f.Fd()))
		fmt.Fprintln(p.w)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}

	if p.reader == nil {
		p.reader = bufio.NewReader(p.in)
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
