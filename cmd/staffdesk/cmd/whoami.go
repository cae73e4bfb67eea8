package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session's identity, outlet, and permissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, cleanup, err := openSession()
		if err != nil {
			return err
		}
		defer cleanup()

		sess.Rehydrate(cmd.Context())
		snap := sess.Snapshot()
		if !snap.Authenticated {
			fmt.Println("Not signed in. Run: staffdesk login")
			return nil
		}
		fmt.Printf("User:   %s <%s>\n", snap.User.Name, snap.User.Email)
		if snap.Outlet != nil {
			fmt.Printf("Outlet: %s (#%d)\n", snap.Outlet.Name, snap.Outlet.ID)
		} else {
			fmt.Println("Outlet: none assigned")
		}
		if len(snap.Grants) == 0 {
			fmt.Println("Permissions: none issued")
			return nil
		}
		fmt.Println("Permissions:")
		for _, g := range snap.Grants {
			mark := "-"
			if g.Granted {
				mark = "+"
			}
			fmt.Printf("  %s %s\n", mark, g.Type)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
