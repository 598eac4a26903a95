package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"imagerater/internal/model"
	"imagerater/internal/rater"
)

const shellHelp = `Commands:
  show                     print the current page
  next | prev              move one page
  goto N                   jump to page N
  filter all|unrated       change the filter (drops pending ratings)
  find NAME                jump to the page holding NAME
  set ID FIELD VALUE       set rating FIELD (1 or 2) of image ID to VALUE (0-2)
  submit                   send pending ratings
  refresh                  reload counts and the page
  help                     show this text
  quit                     leave`

// shell is a line-oriented front end over a rating session.
type shell struct {
	session *rater.Session
	in      io.Reader
	out     io.Writer
}

func newShell(session *rater.Session, in io.Reader, out io.Writer) *shell {
	return &shell{session: session, in: in, out: out}
}

// Run reads commands until EOF, "quit" or ctx is done. Command errors are
// printed and never end the shell.
func (sh *shell) Run(ctx context.Context) error {
	printPage(sh.out, sh.session)

	scanner := bufio.NewScanner(sh.in)
	for {
		fmt.Fprint(sh.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(sh.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		quit, err := sh.exec(ctx, strings.Fields(scanner.Text()))
		if err != nil {
			fmt.Fprintln(sh.out, describe(err))
		}
		if quit {
			return nil
		}
	}
}

func (sh *shell) exec(ctx context.Context, args []string) (quit bool, err error) {
	if len(args) == 0 {
		return false, nil
	}
	s := sh.session
	show := true

	switch args[0] {
	case "quit", "exit":
		if n := s.Pending(); n > 0 {
			fmt.Fprintf(sh.out, "Discarding %d pending rating(s).\n", n)
		}
		return true, nil
	case "help":
		fmt.Fprintln(sh.out, shellHelp)
		return false, nil
	case "show":
	case "next":
		err = s.NextPage(ctx)
	case "prev":
		err = s.PrevPage(ctx)
	case "goto":
		if len(args) != 2 {
			return false, errors.New("usage: goto N")
		}
		n, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			return false, fmt.Errorf("invalid page number %q", args[1])
		}
		err = s.GotoPage(ctx, n)
	case "filter":
		if len(args) != 2 {
			return false, errors.New("usage: filter all|unrated")
		}
		f, parseErr := model.ParseFilter(args[1])
		if parseErr != nil {
			return false, parseErr
		}
		err = s.ChangeFilter(ctx, f)
	case "find":
		_, err = s.FindByFilename(ctx, strings.Join(args[1:], " "))
	case "set":
		if len(args) != 4 {
			return false, errors.New("usage: set ID FIELD VALUE")
		}
		id, field, value, parseErr := parseAssignment(args[1] + ":" + args[2] + "=" + args[3])
		if parseErr != nil {
			return false, parseErr
		}
		err = s.RecordEdit(id, field, value)
		show = false
		if err == nil {
			fmt.Fprintf(sh.out, "%d pending.\n", s.Pending())
		}
	case "submit":
		var report *rater.SubmitReport
		report, err = s.Submit(ctx)
		printReport(sh.out, report)
	case "refresh":
		err = s.Refresh(ctx)
	default:
		return false, fmt.Errorf("unknown command %q, try help", args[0])
	}

	if err != nil {
		var validation *rater.ValidationError
		if errors.As(err, &validation) {
			return false, err
		}
	}
	if show {
		printPage(sh.out, s)
	}
	return false, err
}

// describe turns a session error into the message shown to the user.
func describe(err error) string {
	var validation *rater.ValidationError
	var notFound *rater.NotFoundError
	var partial *rater.PartialSubmissionError
	var op *rater.OpError

	switch {
	case errors.As(err, &validation):
		return validation.Error()
	case errors.As(err, &notFound):
		return notFound.Message
	case errors.As(err, &partial):
		return "An error occurred during submission. Some ratings may not have been saved; the page was reloaded."
	case errors.As(err, &op):
		switch op.Op {
		case rater.OpSearch:
			return "An error occurred while searching for the image."
		case rater.OpSubmit:
			return "Failed to submit ratings."
		}
		return "Failed to load images. Please make sure the server is running."
	case errors.Is(err, rater.ErrStale):
		return "Ignored an outdated response."
	}
	return err.Error()
}
