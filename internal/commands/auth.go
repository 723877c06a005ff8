package commands

import (
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/redjax/notedash/internal/config"
	"github.com/redjax/notedash/internal/services"
	"github.com/redjax/notedash/internal/utils"
	"github.com/spf13/cobra"
)

var validate = validator.New()

// NewLoginCmd prompts for credentials and stores the session.
func NewLoginCmd(getConfig func() *config.Config) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the Note Service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, err := openClient(getConfig())
			if err != nil {
				return err
			}

			in, out := cmd.InOrStdin(), cmd.ErrOrStderr()
			if email == "" {
				if email, err = utils.Prompt(in, out, "Email: "); err != nil {
					return err
				}
			}
			password, err := utils.ReadPassword(in, out, "Password: ")
			if err != nil {
				return err
			}

			creds := services.Credentials{Email: email, Password: password}
			if err := validate.Struct(creds); err != nil {
				return fmt.Errorf("invalid credentials: %w", err)
			}

			token, err := svc.Login(contextOrBackground(cmd), creds)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if err := sess.Set(token, email); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged in as %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")

	return cmd
}

// NewSignupCmd creates an account and logs in with it.
func NewSignupCmd(getConfig func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, err := openClient(getConfig())
			if err != nil {
				return err
			}

			signup, err := promptSignup(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := validate.Struct(signup); err != nil {
				return fmt.Errorf("invalid signup: %w", err)
			}

			res, err := svc.CreateAccount(contextOrBackground(cmd), signup)
			if err != nil {
				return fmt.Errorf("signup failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if res.Message != "" {
				fmt.Fprintf(out, "✓ %s\n", res.Message)
			} else {
				fmt.Fprintln(out, "✓ Account created")
			}

			if res.AccessToken != "" {
				if err := sess.Set(res.AccessToken, signup.Email); err != nil {
					return err
				}
				fmt.Fprintf(out, "Logged in as %s\n", signup.Email)
			}
			if res.VerifyToken != "" {
				fmt.Fprintf(out, "Verify your email with: nd verify %s\n", res.VerifyToken)
			}
			return nil
		},
	}
}

func promptSignup(in io.Reader, out io.Writer) (services.Signup, error) {
	var (
		s   services.Signup
		err error
	)

	if s.FullName, err = utils.Prompt(in, out, "Full name: "); err != nil {
		return s, err
	}
	if s.Email, err = utils.Prompt(in, out, "Email: "); err != nil {
		return s, err
	}
	s.Password, err = utils.ReadPassword(in, out, "Password: ")
	return s, err
}

func NewLogoutCmd(getConfig func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sess, err := openClient(getConfig())
			if err != nil {
				return err
			}
			if err := sess.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Logged out")
			return nil
		},
	}
}

func NewVerifyCmd(getConfig func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <token>",
		Short: "Confirm an email address with its verification token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := openClient(getConfig())
			if err != nil {
				return err
			}

			msg, err := svc.VerifyEmail(contextOrBackground(cmd), args[0])
			if err != nil {
				return fmt.Errorf("verification failed: %w", err)
			}
			if msg == "" {
				msg = "Email verified"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", msg)
			return nil
		},
	}
}
