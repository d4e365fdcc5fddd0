package cli

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/jmoret/rosterbee/internal/settings"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively set up the connection settings",
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	svc, doc, err := newService()
	if err != nil {
		return err
	}

	exists, err := svc.Exists()
	if err != nil {
		return err
	}
	if exists {
		var overwrite bool
		prompt := &survey.Confirm{
			Message: "Settings already exist. Update the connection fields?",
			Default: false,
		}
		if err := survey.AskOne(prompt, &overwrite); err != nil {
			return err
		}
		if !overwrite {
			return nil
		}
	}

	if err := promptLMS(&doc); err != nil {
		return err
	}
	if err := promptHosting(&doc); err != nil {
		return err
	}

	if err := svc.Save(doc); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	path, err := svc.LocatePath()
	if err != nil {
		return err
	}
	fmt.Printf("Settings written to %s\n", path)
	return nil
}

func promptLMS(doc *settings.Document) error {
	lmsPrompt := &survey.Select{
		Message: "Learning management system:",
		Options: []string{settings.ProviderCanvas, settings.ProviderMoodle},
		Default: doc.LMSSettings.Type,
	}
	if err := survey.AskOne(lmsPrompt, &doc.LMSSettings.Type); err != nil {
		return err
	}

	urlPrompt := &survey.Input{
		Message: "LMS base URL:",
		Default: doc.LMSSettings.BaseURL,
		Help:    "The root of your institution's LMS (e.g. https://canvas.example.edu)",
	}
	if err := survey.AskOne(urlPrompt, &doc.LMSSettings.BaseURL, survey.WithValidator(survey.Required)); err != nil {
		return err
	}
	doc.LMSSettings.URLOption = settings.URLOptionPreset

	tokenPrompt := &survey.Password{
		Message: "LMS access token:",
		Help:    "A personal API token generated in your LMS account settings",
	}
	if err := survey.AskOne(tokenPrompt, &doc.LMSSettings.AccessToken, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	coursePrompt := &survey.Input{
		Message: "Course ID:",
		Default: doc.LMSSettings.CourseID,
		Help:    "The numeric course identifier from the course URL",
	}
	return survey.AskOne(coursePrompt, &doc.LMSSettings.CourseID)
}

func promptHosting(doc *settings.Document) error {
	urlPrompt := &survey.Input{
		Message: "Git host URL:",
		Default: doc.HostingSettings.BaseURL,
		Help:    "A GitLab/GitHub/Gitea base URL, or a local directory path",
	}
	if err := survey.AskOne(urlPrompt, &doc.HostingSettings.BaseURL, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	tokenPrompt := &survey.Password{
		Message: "Git host access token:",
		Help:    "Leave empty for a local directory host",
	}
	if err := survey.AskOne(tokenPrompt, &doc.HostingSettings.AccessToken); err != nil {
		return err
	}

	userPrompt := &survey.Input{
		Message: "Git host user name:",
		Default: doc.HostingSettings.User,
	}
	if err := survey.AskOne(userPrompt, &doc.HostingSettings.User); err != nil {
		return err
	}

	groupPrompt := &survey.Input{
		Message: "Student repositories group:",
		Default: doc.HostingSettings.StudentReposGroup,
		Help:    "The group/organization where student repositories are created",
	}
	return survey.AskOne(groupPrompt, &doc.HostingSettings.StudentReposGroup)
}
