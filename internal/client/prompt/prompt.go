// Package prompt renders the admin gate in a terminal.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/atinyakov/lumina/internal/gate"
	"github.com/atinyakov/lumina/internal/models"
)

// ErrAborted is returned when input ends or attempts run out before the
// gate authenticates.
var ErrAborted = errors.New("login aborted")

// Prompter reads passwords, hiding input when attached to a terminal.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
	tty bool
}

// New returns a Prompter reading from in and writing prompts to out.
func New(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.tty = true
	}
	return p
}

// Password prints label and reads one line without echo on a terminal.
func (p *Prompter) Password(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if p.tty {
		b, err := term.ReadPassword(p.fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Header describes the gate's mode and backend.
func Header(mode models.AuthMode, kind models.BackendKind) string {
	title := "Admin login"
	if mode == models.SetupRequired {
		title = "First-time setup"
	}
	return fmt.Sprintf("%s\n  %s", title, kind.Label())
}

// Run opens g and prompts until it authenticates. maxAttempts <= 0 means
// unlimited.
func Run(ctx context.Context, g *gate.Gate, p *Prompter, maxAttempts int) error {
	mode, err := g.Open(ctx)
	if err != nil {
		return err
	}
	defer g.Close()
	fmt.Fprintln(p.out, Header(mode, g.Kind()))

	for attempt := 1; maxAttempts <= 0 || attempt <= maxAttempts; attempt++ {
		password, confirm, err := readInput(p, mode)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return ErrAborted
			}
			return err
		}

		err = g.Submit(ctx, password, confirm)
		if err == nil {
			return nil
		}
		if errors.Is(err, gate.ErrClosed) || errors.Is(err, gate.ErrStale) {
			return err
		}
		fmt.Fprintf(p.out, "  ✗ %s\n", g.ErrorText())
	}
	return ErrAborted
}

func readInput(p *Prompter, mode models.AuthMode) (string, string, error) {
	if mode == models.SetupRequired {
		password, err := p.Password("Set new password: ")
		if err != nil {
			return "", "", err
		}
		confirm, err := p.Password("Confirm new password: ")
		if err != nil {
			return "", "", err
		}
		return password, confirm, nil
	}
	password, err := p.Password("Password: ")
	return password, "", err
}
