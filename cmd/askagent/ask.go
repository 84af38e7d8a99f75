package askagent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	root "github.com/soundprediction/go-askagent"
	"github.com/soundprediction/go-askagent/pkg/display"
	"github.com/soundprediction/go-askagent/pkg/types"
)

const emptyQuestionPrompt = "Please enter a question first!"

var askCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Ask the assistant a question",
	Long: `Ask the assistant a question and print the answer, the context it used
and the similarity score.

With arguments the words are joined into one question. Without arguments
questions are read one per line from stdin until EOF or "exit".`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	client := root.NewQueryClient(rt.transport, root.WithLogger(rt.logger))

	if len(args) > 0 {
		view, err := ask(cmd.Context(), client, rt.printer, strings.Join(args, " "))
		if err != nil {
			return err
		}
		if view.IsError() {
			return fmt.Errorf("%w: %s", errReported, view.Error)
		}
		return nil
	}

	return askInteractive(cmd.Context(), client, rt.printer, cmd.InOrStdin())
}

// ask submits one question and prints whatever comes back. Validation
// problems are printed as the prompt and yield no error.
func ask(ctx context.Context, client *root.QueryClient, printer *display.Printer, question string) (types.RenderedView, error) {
	outcome, err := client.Submit(ctx, question)
	if err != nil {
		var verr types.ValidationError
		if errors.As(err, &verr) {
			return types.RenderedView{}, printer.Line(emptyQuestionPrompt)
		}
		return types.RenderedView{}, err
	}

	view := client.Render(outcome)
	if err := printer.View(view); err != nil {
		return view, fmt.Errorf("failed to print answer: %w", err)
	}
	return view, nil
}

func askInteractive(ctx context.Context, client *root.QueryClient, printer *display.Printer, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if err := printer.Prompt("> "); err != nil {
			return err
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			return nil
		}
		if _, err := ask(ctx, client, printer, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read question: %w", err)
	}
	return nil
}
