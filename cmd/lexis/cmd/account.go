package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/f3rmion/lexis/internal/api"
	"github.com/f3rmion/lexis/internal/validate"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var signinCmd = &cobra.Command{
	Use:     "signin",
	Aliases: []string{"login"},
	Short:   "Sign in to your Lexis account",
	Long: `Sign in and keep the session in your config directory.

The password is read from --password, from LEXIS_PASSWORD, or asked for
on the terminal.

Example:
  lexis signin --email ada@example.com`,
	Args: cobra.NoArgs,
	RunE: runSignin,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a Lexis account and sign in",
	Long: `Create an account, then sign in with it.

Example:
  lexis signup --first-name Ada --last-name Lovelace --email ada@example.com`,
	Args: cobra.NoArgs,
	RunE: runSignup,
}

var signoutCmd = &cobra.Command{
	Use:     "signout",
	Aliases: []string{"logout"},
	Short:   "Forget the stored session",
	Args:    cobra.NoArgs,
	RunE:    runSignout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

var (
	accountEmail     string
	accountPassword  string
	accountFirstName string
	accountLastName  string
)

func init() {
	rootCmd.AddCommand(signinCmd, signupCmd, signoutCmd, whoamiCmd)

	for _, c := range []*cobra.Command{signinCmd, signupCmd} {
		c.Flags().StringVarP(&accountEmail, "email", "e", "", "email address")
		c.Flags().StringVarP(&accountPassword, "password", "p", "", "password (prefer LEXIS_PASSWORD or the prompt)")
	}
	signupCmd.Flags().StringVar(&accountFirstName, "first-name", "", "first name")
	signupCmd.Flags().StringVar(&accountLastName, "last-name", "", "last name")
}

// stdin is shared so that buffered input survives between prompts.
var stdin *bufio.Reader

// readSecret returns the password from the flag, the environment or the terminal.
func readSecret(cmd *cobra.Command, label string) (string, error) {
	if accountPassword != "" {
		return accountPassword, nil
	}
	if p := viper.GetString("password"); p != "" {
		return p, nil
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s: ", label)
	if term.IsTerminal(os.Stdin.Fd()) {
		secret, err := term.ReadPassword(os.Stdin.Fd())
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(secret), nil
	}

	if stdin == nil {
		stdin = bufio.NewReader(cmd.InOrStdin())
	}
	line, err := stdin.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func printFieldErrors(w io.Writer, err error) error {
	var errs validate.Errors
	if !errors.As(err, &errs) {
		return err
	}
	for _, field := range slices.Sorted(maps.Keys(errs)) {
		fmt.Fprintf(w, "  %s: %s\n", field, errs[field])
	}
	return errors.New("please fix the fields above")
}

func runSignin(cmd *cobra.Command, args []string) error {
	password, err := readSecret(cmd, "Password")
	if err != nil {
		return err
	}

	form := validate.SignInForm{Email: accountEmail, Password: password}
	if err := validate.NewSignIn().Validate(form); err != nil {
		return printFieldErrors(cmd.ErrOrStderr(), err)
	}

	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	sess, err := env.backend.SignIn(cmd.Context(), strings.TrimSpace(accountEmail), password)
	if err != nil {
		return err
	}
	if err := env.sessions.Save(sess); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", sess.Email)
	return nil
}

func runSignup(cmd *cobra.Command, args []string) error {
	password, err := readSecret(cmd, "Password")
	if err != nil {
		return err
	}
	confirm := password
	if accountPassword == "" && viper.GetString("password") == "" {
		if confirm, err = readSecret(cmd, "Confirm password"); err != nil {
			return err
		}
	}

	form := validate.SignUpForm{
		FirstName:       accountFirstName,
		LastName:        accountLastName,
		Email:           accountEmail,
		Password:        password,
		ConfirmPassword: confirm,
	}
	if err := validate.NewSignUp().Validate(form); err != nil {
		return printFieldErrors(cmd.ErrOrStderr(), err)
	}

	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := cmd.Context()
	email := strings.TrimSpace(accountEmail)
	err = env.backend.SignUp(ctx, api.SignUpRequest{
		FirstName:       strings.TrimSpace(accountFirstName),
		LastName:        strings.TrimSpace(accountLastName),
		Email:           email,
		Password:        password,
		ConfirmPassword: confirm,
	})
	if err != nil {
		return err
	}

	sess, err := env.backend.SignIn(ctx, email, password)
	if err != nil {
		return fmt.Errorf("account created, but signing in failed: %w", err)
	}
	if err := env.sessions.Save(sess); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s! You are signed in.\n", strings.TrimSpace(accountFirstName))
	return nil
}

func runSignout(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.sessions.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.requireSession(cmd.Context()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	email := env.session.Email
	if email == "" {
		email = "(unknown email)"
	}
	fmt.Fprintf(out, "%s (user %s)\n", email, env.session.UserID)
	return nil
}
