package questions

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pybo-board/pybo-client/cmd/cli/app"
	"github.com/pybo-board/pybo-client/cmd/cli/output"
	"github.com/pybo-board/pybo-client/internal/models"
)

// Init registers the questions command group on the root command.
func Init(rootCmd *cobra.Command) {
	questionsCmd := &cobra.Command{
		Use:   "questions",
		Short: "Browse and manage questions",
	}

	questionsCmd.AddCommand(
		listCmd(),
		showCmd(),
		createCmd(),
		updateCmd(),
	)

	rootCmd.AddCommand(questionsCmd)
}

// ==========================
// LIST
// ==========================
func listCmd() *cobra.Command {
	var page, size int
	var keyword string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := app.Build()
			if err != nil {
				return err
			}

			result, err := ctx.Client.ListQuestions(cmd.Context(), models.ListRequest{
				Page: page, Size: size, Keyword: keyword,
			})
			if err != nil {
				return err
			}

			if asJSON {
				output.RenderJSON(result)
				return nil
			}

			rows := make([][]interface{}, 0, len(result.Items))
			for i, q := range result.Items {
				rows = append(rows, []interface{}{
					page*size + i + 1, q.ID, q.Subject, authorName(q.User), q.CreateDate,
				})
			}
			output.RenderTable([]string{"#", "ID", "Subject", "Author", "Created"}, rows)

			totalPages := (result.Total + size - 1) / size
			fmt.Printf("Total %d question(s), page %d of %d\n", result.Total, page+1, max(totalPages, 1))
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "zero-based page number")
	cmd.Flags().IntVar(&size, "size", 10, "page size")
	cmd.Flags().StringVar(&keyword, "keyword", "", "filter by keyword")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")

	return cmd
}

// ==========================
// SHOW
// ==========================
func showCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a question with its answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("question id must be an integer: %q", args[0])
			}

			ctx, err := app.Build()
			if err != nil {
				return err
			}
			q, err := ctx.Client.GetQuestion(cmd.Context(), id)
			if err != nil {
				return err
			}

			if asJSON {
				output.RenderJSON(q)
				return nil
			}

			fmt.Printf("#%d %s\n", q.ID, q.Subject)
			fmt.Printf("by %s at %s\n\n", authorName(q.User), q.CreateDate)
			fmt.Println(q.Content)
			fmt.Printf("\n%d answer(s)\n", len(q.Answers))
			for _, a := range q.Answers {
				fmt.Printf("  [%d] %s (%s, %s)\n", a.ID, a.Content, authorName(a.User), a.CreateDate)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

// ==========================
// CREATE
// ==========================
func createCmd() *cobra.Command {
	var subject, content string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a question",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := app.Build()
			if err != nil {
				return err
			}
			if !ctx.Sessions.IsAuthenticated() {
				return fmt.Errorf("please login first (pybo users login)")
			}

			form := models.QuestionWrite{Subject: subject, Content: content}
			if err := ctx.Validate.Check(form); err != nil {
				return err
			}

			q, err := ctx.Client.CreateQuestion(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Printf("Question %d created\n", q.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "question subject")
	cmd.Flags().StringVar(&content, "content", "", "question body")

	return cmd
}

// ==========================
// UPDATE
// ==========================
func updateCmd() *cobra.Command {
	var subject, content string

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
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

			form := models.QuestionWrite{Subject: subject, Content: content}
			if err := ctx.Validate.Check(form); err != nil {
				return err
			}

			q, err := ctx.Client.UpdateQuestion(cmd.Context(), id, form)
			if err != nil {
				return err
			}
			fmt.Printf("Question %d updated\n", q.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "question subject")
	cmd.Flags().StringVar(&content, "content", "", "question body")

	return cmd
}

func authorName(u *models.User) string {
	if u == nil || u.Username == "" {
		return "anonymous"
	}
	return u.Username
}
