package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, cleanup, err := openSession()
		if err != nil {
			return err
		}
		defer cleanup()

		// Rehydrate first so the backend call carries the stored token.
		sess.Rehydrate(cmd.Context())
		sess.SignOut(cmd.Context())
		fmt.Println("Signed out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
