package askagent

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soundprediction/go-askagent/pkg/admin"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage unanswered questions",
	Long: `List, answer and delete the questions the assistant could not answer.

Every call forwards the admin key (--admin-key, admin.key or ASKAGENT_ADMIN_KEY).`,
}

var adminListCmd = &cobra.Command{
	Use:   "list",
	Short: "List unanswered questions",
	Args:  cobra.NoArgs,
	RunE:  runAdminList,
}

var adminAnswerCmd = &cobra.Command{
	Use:   "answer <id> <text...>",
	Short: "Answer an unanswered question",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runAdminAnswer,
}

var adminDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an unanswered question",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminDelete,
}

var deleteYes bool

func init() {
	adminCmd.PersistentFlags().String("admin-key", "", "Admin key forwarded to the backend")
	adminDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without asking for confirmation")

	adminCmd.AddCommand(adminListCmd, adminAnswerCmd, adminDeleteCmd)
	rootCmd.AddCommand(adminCmd)
}

func newAdminClient(cmd *cobra.Command) (*admin.Client, *runtime, error) {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return nil, nil, err
	}
	client := admin.NewClient(rt.transport, rt.cfg.Admin.Key, admin.Config{
		KeyHeader: rt.cfg.Admin.KeyHeader,
		Logger:    rt.logger,
	})
	return client, rt, nil
}

func runAdminList(cmd *cobra.Command, args []string) error {
	client, rt, err := newAdminClient(cmd)
	if err != nil {
		return err
	}

	questions, err := client.ListUnanswered(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load questions: %w", err)
	}
	return rt.printer.Questions(questions)
}

func runAdminAnswer(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	client, rt, err := newAdminClient(cmd)
	if err != nil {
		return err
	}

	// The saved entry takes its text from the listed question, so the
	// board has to be loaded first.
	board := admin.NewBoard(client)
	if _, err := board.Load(cmd.Context()); err != nil {
		return fmt.Errorf("failed to load questions: %w", err)
	}
	if err := board.Answer(cmd.Context(), id, strings.Join(args[1:], " ")); err != nil {
		return fmt.Errorf("failed to save answer: %w", err)
	}
	return rt.printer.Line("Answer saved successfully!")
}

func runAdminDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	client, rt, err := newAdminClient(cmd)
	if err != nil {
		return err
	}

	if !deleteYes {
		if err := rt.printer.Prompt(fmt.Sprintf("Delete question %d? [y/N] ", id)); err != nil {
			return err
		}
		reply, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(reply)) {
		case "y", "yes":
		default:
			return rt.printer.Line("Cancelled.")
		}
	}

	if err := client.DeleteQuestion(cmd.Context(), id); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return rt.printer.Line("Question deleted!")
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid question id %q", s)
	}
	return id, nil
}
