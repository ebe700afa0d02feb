package answers

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pybo-board/pybo-client/cmd/cli/app"
	"github.com/pybo-board/pybo-client/internal/models"
)

// Init registers the answers command group on the root command.
func Init(rootCmd *cobra.Command) {
	answersCmd := &cobra.Command{
		Use:   "answers",
		Short: "Post and edit answers",
	}

	answersCmd.AddCommand(addCmd(), updateCmd())
	rootCmd.AddCommand(answersCmd)
}

func addCmd() *cobra.Command {
	var content string

	cmd := &cobra.Command{
		Use:   "add [question-id]",
		Short: "Post an answer to a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			questionID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("question id must be an integer: %q", args[0])
			}

			ctx, err := app.Build()
			if err != nil {
				return err
			}
			if !ctx.Sessions.IsAuthenticated() {
				return fmt.Errorf("please login first (pybo users login)")
			}

			form := models.AnswerWrite{Content: content}
			if err := ctx.Validate.Check(form); err != nil {
				return err
			}

			a, err := ctx.Client.CreateAnswer(cmd.Context(), questionID, form)
			if err != nil {
				return err
			}
			fmt.Printf("Answer %d posted to question %d\n", a.ID, questionID)
			return nil
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "answer body")
	return cmd
}

func updateCmd() *cobra.Command {
	var content string

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update an answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("answer id must be an integer: %q", args[0])
			}

			ctx, err := app.Build()
			if err != nil {
				return err
			}
			if !ctx.Sessions.IsAuthenticated() {
				return fmt.Errorf("please login first (pybo users login)")
			}

			form := models.AnswerWrite{Content: content}
			if err := ctx.Validate.Check(form); err != nil {
				return err
			}

			a, err := ctx.Client.UpdateAnswer(cmd.Context(), id, form)
			if err != nil {
				return err
			}
			fmt.Printf("Answer %d updated\n", a.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&content, "content", "", "answer body")
	return cmd
}
