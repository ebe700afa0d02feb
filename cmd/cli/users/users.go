package users

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pybo-board/pybo-client/cmd/cli/app"
	"github.com/pybo-board/pybo-client/internal/models"
)

// Test seams: stdin and the no-echo password reader can be replaced so
// command tests never touch a real terminal.
var (
	stdin        io.Reader = os.Stdin
	readPassword           = func() ([]byte, error) { return term.ReadPassword(int(os.Stdin.Fd())) }
)

// Init registers the users command group on the root command.
func Init(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Register, login and logout",
		Long: `Register or login a user against the PYBO backend.
The session (user and bearer token) is stored locally for future commands.`,
	}

	usersCmd.AddCommand(registerCmd(), loginCmd(), logoutCmd(), whoamiCmd())
	rootCmd.AddCommand(usersCmd)
}

// ==========================
// Register
// ==========================
func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Register a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(stdin)
			username, err := promptLine(reader, "Username")
			if err != nil {
				return err
			}
			email, err := promptLine(reader, "Email")
			if err != nil {
				return err
			}
			password1, err := promptPassword("Password")
			if err != nil {
				return err
			}
			password2, err := promptPassword("Confirm password")
			if err != nil {
				return err
			}

			ctx, err := app.Build()
			if err != nil {
				return err
			}

			form := models.UserCreate{
				Username:  username,
				Password1: password1,
				Password2: password2,
				Email:     email,
			}
			// Password equality and length are checked before any request.
			if err := ctx.Validate.Check(form); err != nil {
				return err
			}

			if _, err := ctx.Client.Register(cmd.Context(), form); err != nil {
				return err
			}
			fmt.Println("User registered successfully. You can now login.")
			return nil
		},
	}
}

// ==========================
// Login
// ==========================
func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Login and store the session locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(stdin)
			username, err := promptLine(reader, "Username")
			if err != nil {
				return err
			}
			password, err := promptPassword("Password")
			if err != nil {
				return err
			}

			ctx, err := app.Build()
			if err != nil {
				return err
			}

			form := models.UserLogin{Username: username, Password: password}
			if err := ctx.Validate.Check(form); err != nil {
				return err
			}

			res, err := ctx.Client.Login(cmd.Context(), form)
			if err != nil {
				return err
			}
			if err := ctx.Sessions.Login(res.User, res.AccessToken); err != nil {
				return err
			}

			fmt.Printf("Logged in as %s. Session stored locally.\n", res.User.Username)
			return nil
		},
	}
}

// ==========================
// Logout
// ==========================
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout and remove the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := app.Build()
			if err != nil {
				return err
			}
			if !ctx.Sessions.IsAuthenticated() {
				fmt.Println("No user logged in.")
				return nil
			}
			if err := ctx.Sessions.Logout(); err != nil {
				return err
			}
			fmt.Println("Logged out successfully.")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := app.Build()
			if err != nil {
				return err
			}
			user, _ := ctx.Sessions.Current()
			if user == nil {
				fmt.Println("Not logged in.")
				return nil
			}
			fmt.Printf("Logged in as %s", user.Username)
			if user.Email != "" {
				fmt.Printf(" <%s>", user.Email)
			}
			fmt.Println()
			return nil
		},
	}
}

// ==========================
// Prompt helpers
// ==========================

func promptLine(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label + ": ")
	line, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fmt.Print(label + ": ")
	pw, err := readPassword()
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
