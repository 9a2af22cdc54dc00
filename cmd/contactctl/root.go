package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"portfolio-backend/pkg/contactform"
	"portfolio-backend/pkg/validation"

	"github.com/spf13/cobra"
)

// formFlags are the contact fields shared by every subcommand
type formFlags struct {
	name    string
	email   string
	subject string
	message string
}

func (f *formFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "your name (min 2 characters)")
	cmd.Flags().StringVar(&f.email, "email", "", "reply-to email address")
	cmd.Flags().StringVar(&f.subject, "subject", "", "optional subject")
	cmd.Flags().StringVar(&f.message, "message", "", "message body (min 10 characters); '-' reads stdin")
}

func (f *formFlags) form(stdin io.Reader) (validation.Form, error) {
	message := f.message
	if message == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return validation.Form{}, fmt.Errorf("read message from stdin: %w", err)
		}
		message = string(b)
	}
	return validation.Form{Name: f.name, Email: f.email, Subject: f.subject, Message: message}, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "contactctl",
		Short:        "Send and check portfolio contact form messages",
		SilenceUsage: true,
	}
	root.AddCommand(newSendCmd(), newValidateCmd())
	return root
}

func newSendCmd() *cobra.Command {
	var (
		fields   formFlags
		endpoint string
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Validate and submit a contact message",
		Example: `  contactctl send --name "Jo Doe" --email jo@example.com --message "Hello, let's work together"
  echo "long message..." | contactctl send --name Jo --email jo@example.com --message -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := fields.form(cmd.InOrStdin())
			if err != nil {
				return err
			}

			transport := contactform.NewHTTPTransport(endpoint, nil)
			ctrl := contactform.New(transport)
			defer ctrl.Close()

			for _, f := range validation.Fields {
				ctrl.UpdateField(f, form.Value(f))
			}

			submitErr := ctrl.Submit(cmd.Context())
			state := ctrl.State()
			printErrors(cmd.ErrOrStderr(), state.Errors)

			var rejected *contactform.SubmissionError
			if errors.As(submitErr, &rejected) {
				printErrors(cmd.ErrOrStderr(), rejected.FieldErrors())
			}
			if state.Notice.Kind != contactform.NoticeNone {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", state.Notice.Title, state.Notice.Description)
			}
			return submitErr
		},
	}

	fields.bind(cmd)
	cmd.Flags().StringVar(&endpoint, "endpoint", envOr("CONTACT_API_URL", "http://localhost:8080"), "backend base URL")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var fields formFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run the client-side rules without sending anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := fields.form(cmd.InOrStdin())
			if err != nil {
				return err
			}
			ok, errs := validation.ValidateForm(form)
			printErrors(cmd.ErrOrStderr(), errs)
			if !ok {
				return contactform.ErrInvalidForm
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
	fields.bind(cmd)
	return cmd
}

func printErrors(w io.Writer, errs validation.FieldErrors) {
	for _, f := range validation.Fields {
		if msg, ok := errs[f]; ok {
			fmt.Fprintf(w, "%s: %s\n", f, msg)
		}
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
