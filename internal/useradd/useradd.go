// Package useradd implements the interactive account creation command.
package useradd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/server/services"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var ErrPasswordMismatch = errors.New("passwords do not match")

type Registrar interface {
	Register(ctx context.Context, name, email, password string) (*models.User, *services.TokenPair, error)
}

func getSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// getPassword reads a password from the terminal without echo. The caller
// wipes the returned slice.
func getPassword(prompt string, w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// Run prompts for name, email and a confirmed password and registers the
// account.
func Run(ctx context.Context, r Registrar, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	name, err := getSimpleText(reader, "Name", out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(reader, "Email", out)
	if err != nil {
		return err
	}

	pw, err := getPassword("Password: ", out)
	if err != nil {
		return err
	}
	defer common.Wipe(pw)
	confirm, err := getPassword("Repeat password: ", out)
	if err != nil {
		return err
	}
	defer common.Wipe(confirm)

	if string(pw) != string(confirm) {
		return ErrPasswordMismatch
	}

	u, _, err := r.Register(ctx, name, email, string(pw))
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	_, err = fmt.Fprintf(out, "Created user %s <%s> with id %s\n", u.Name, u.Email, u.ID)
	return err
}
