package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the session for later commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, cleanup, err := openSession()
		if err != nil {
			return err
		}
		defer cleanup()

		email := loginEmail
		if email == "" {
			fmt.Print("Email: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				return err
			}
			email = strings.TrimSpace(line)
		}

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}

		if err := sess.SignIn(cmd.Context(), email, string(password)); err != nil {
			return err
		}
		snap := sess.Snapshot()
		fmt.Printf("Signed in as %s", snap.User.Name)
		if snap.Outlet != nil {
			fmt.Printf(" (%s)", snap.Outlet.Name)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Staff email (prompted if omitted)")
}
