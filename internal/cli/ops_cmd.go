package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmoret/rosterbee/internal/ops"
	"github.com/jmoret/rosterbee/internal/progress"
	"github.com/jmoret/rosterbee/internal/settings"
)

var (
	courseOverride      string
	rosterOverride      string
	assignmentsOverride string
	targetOverride      string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify LMS and git host credentials",
	RunE:  runVerify,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Fetch the course roster and write the enabled output files",
	RunE:  runGenerate,
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create one repository per team and assignment from templates",
	RunE:  runSetup,
}

var cloneCmd = &cobra.Command{
	Use:   "clone",
	Short: "Clone every team repository into the target folder",
	RunE:  runClone,
}

func init() {
	generateCmd.Flags().StringVar(&courseOverride, "course", "", "override the configured course ID")

	for _, c := range []*cobra.Command{setupCmd, cloneCmd} {
		c.Flags().StringVar(&rosterOverride, "roster", "", "override the roster YAML file")
		c.Flags().StringVar(&assignmentsOverride, "assignments", "", "override the assignment list (comma separated)")
	}
	cloneCmd.Flags().StringVar(&targetOverride, "target", "", "override the clone target folder")

	rootCmd.AddCommand(verifyCmd, generateCmd, setupCmd, cloneCmd)
}

func opContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx, cancel := opContext()
	defer cancel()

	svc, doc, err := newService()
	if err != nil {
		return err
	}

	fmt.Printf("Verifying %s course access...\n", doc.LMSSettings.Type)
	lms := svc.VerifyLMSCourse(ctx, doc.LMSSettings)
	printOutcome(lms)

	fmt.Println("Verifying git host access...")
	host := svc.VerifyHostConfig(ctx, doc.HostingSettings)
	printOutcome(host)

	if !lms.Success || !host.Success {
		return fmt.Errorf("verification failed")
	}
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := opContext()
	defer cancel()

	svc, doc, err := newService()
	if err != nil {
		return err
	}
	if courseOverride != "" {
		doc.LMSSettings.CourseID = courseOverride
	}

	printer := newStreamPrinter(os.Stdout)
	result := svc.GenerateRosterFiles(ctx, doc.LMSSettings, printer)
	printer.finishLine()
	return finishOp(result)
}

func runSetup(cmd *cobra.Command, args []string) error {
	ctx, cancel := opContext()
	defer cancel()

	svc, doc, err := newService()
	if err != nil {
		return err
	}
	applyRepoOverrides(&doc.RepoSettings)

	printer := newStreamPrinter(os.Stdout)
	result := svc.SetupRepos(ctx, doc.HostingSettings, doc.RepoSettings, printer)
	printer.finishLine()
	return finishOp(result)
}

func runClone(cmd *cobra.Command, args []string) error {
	ctx, cancel := opContext()
	defer cancel()

	svc, doc, err := newService()
	if err != nil {
		return err
	}
	applyRepoOverrides(&doc.RepoSettings)

	printer := newStreamPrinter(os.Stdout)
	result := svc.CloneRepos(ctx, doc.HostingSettings, doc.RepoSettings, printer)
	printer.finishLine()
	return finishOp(result)
}

func applyRepoOverrides(rs *settings.RepoSettings) {
	if rosterOverride != "" {
		rs.YamlFile = rosterOverride
	}
	if assignmentsOverride != "" {
		rs.Assignments = assignmentsOverride
	}
	if targetOverride != "" {
		rs.TargetFolder = targetOverride
	}
}

// streamPrinter renders an operation's message stream to a terminal:
// milestone lines are printed as-is, progress ticks rewrite a single
// status line in place.
type streamPrinter struct {
	w         io.Writer
	transient bool
}

func newStreamPrinter(w io.Writer) *streamPrinter {
	return &streamPrinter{w: w}
}

func (p *streamPrinter) Send(msg string) {
	if payload, ok := strings.CutPrefix(msg, progress.WirePrefix); ok {
		fmt.Fprintf(p.w, "\r\033[2K%s%s", progress.DisplayPrefix, strings.TrimLeft(payload, " \t"))
		p.transient = true
		return
	}
	p.finishLine()
	fmt.Fprintln(p.w, msg)
}

// finishLine terminates a pending in-place status line so subsequent
// output starts on a fresh line.
func (p *streamPrinter) finishLine() {
	if p.transient {
		fmt.Fprintln(p.w)
		p.transient = false
	}
}

func printOutcome(r ops.Result) {
	if r.Success {
		fmt.Printf("  ok: %s\n", r.Message)
	} else {
		fmt.Printf("  failed: %s\n", r.Message)
	}
	if r.Details != "" {
		for _, line := range strings.Split(r.Details, "\n") {
			fmt.Println("  " + line)
		}
	}
}

func finishOp(r ops.Result) error {
	fmt.Println()
	printOutcome(r)
	if !r.Success {
		return fmt.Errorf("%s", r.Message)
	}
	return nil
}
