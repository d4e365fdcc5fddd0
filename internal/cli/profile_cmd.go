package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage named settings snapshots",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}
		names, err := svc.ListProfiles()
		if err != nil {
			return err
		}
		active, err := svc.ActiveProfile()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No profiles saved")
			return nil
		}
		for _, name := range names {
			marker := "  "
			if name == active {
				marker = "* "
			}
			fmt.Println(marker + name)
		}
		return nil
	},
}

var profileActiveCmd = &cobra.Command{
	Use:   "active",
	Short: "Print the active profile name",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}
		name, err := svc.ActiveProfile()
		if err != nil {
			return err
		}
		if name == "" {
			fmt.Println("(none)")
			return nil
		}
		fmt.Println(name)
		return nil
	},
}

var profileSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the current document as a named profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, doc, err := newService()
		if err != nil {
			return err
		}
		if err := svc.SaveProfile(args[0], doc); err != nil {
			return err
		}
		fmt.Printf("Profile %q saved\n", args[0])
		return nil
	},
}

var profileLoadCmd = &cobra.Command{
	Use:   "load <name>",
	Short: "Replace the current document with a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}
		doc, err := svc.LoadProfile(args[0])
		if err != nil {
			return err
		}
		if err := svc.Save(doc); err != nil {
			return err
		}
		fmt.Printf("Profile %q loaded\n", args[0])
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}
		if err := svc.DeleteProfile(args[0]); err != nil {
			return err
		}
		fmt.Printf("Profile %q deleted\n", args[0])
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileListCmd, profileActiveCmd, profileSaveCmd,
		profileLoadCmd, profileDeleteCmd)
	rootCmd.AddCommand(profileCmd)
}
