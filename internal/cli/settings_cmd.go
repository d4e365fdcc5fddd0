package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect and manage the settings document",
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}
		path, err := svc.LocatePath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current document as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, doc, err := newService()
		if err != nil {
			return err
		}
		return printJSON(doc)
	},
}

var settingsSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the document schema as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}
		return printJSON(svc.Schema())
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace the document with all defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}
		if _, err := svc.ResetSettings(); err != nil {
			return err
		}
		fmt.Println("Settings reset to defaults")
		return nil
	},
}

var settingsResetLocationCmd = &cobra.Command{
	Use:   "reset-location",
	Short: "Point the settings location back at the platform default",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}
		path, err := svc.ResetSettingsLocation()
		if err != nil {
			return err
		}
		fmt.Printf("Settings location reset to %s\n", path)
		return nil
	},
}

var settingsExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the current document to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, doc, err := newService()
		if err != nil {
			return err
		}
		if err := svc.ExportSettings(doc, args[0]); err != nil {
			return err
		}
		fmt.Printf("Settings exported to %s\n", args[0])
		return nil
	},
}

var settingsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Validate a settings file and adopt its content",
	Long:  "Reads and validates the given file, then saves its content at the current settings location. The location itself never changes.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := newService()
		if err != nil {
			return err
		}
		doc, err := svc.ImportSettings(args[0])
		if err != nil {
			return err
		}
		if err := svc.Save(doc); err != nil {
			return err
		}
		fmt.Printf("Settings imported from %s\n", args[0])
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsPathCmd, settingsShowCmd, settingsSchemaCmd,
		settingsResetCmd, settingsResetLocationCmd, settingsExportCmd, settingsImportCmd)
	rootCmd.AddCommand(settingsCmd)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
