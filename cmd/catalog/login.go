package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in and store the session credential",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := args[0]

		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			fmt.Fprint(os.Stderr, "Password: ")
			raw, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return fmt.Errorf("reading password: %w", err)
			}
			password = string(raw)
		}

		sess, err := api.Login(cmd.Context(), email, password)
		if err != nil {
			return apiError(err)
		}

		if err := sessions.Set(sess); err != nil {
			return err
		}

		fmt.Printf("Logged in as %s (%s)\n", sess.Name, sess.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session credential",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sessions.Clear(); err != nil {
			return err
		}
		fmt.Println("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session identity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, ok := sessions.Get()
		if !ok {
			return fmt.Errorf("not logged in, run `catalog login`")
		}
		if jsonOutput {
			printJSON(map[string]string{
				"email": sess.Email,
				"name":  sess.Name,
				"role":  sess.Role.String(),
			})
			return nil
		}
		fmt.Printf("Email: %s\nName:  %s\nRole:  %s\n", sess.Email, sess.Name, sess.Role)
		return nil
	},
}

func init() {
	loginCmd.Flags().String("password", "", "password (prompted when omitted)")
}
