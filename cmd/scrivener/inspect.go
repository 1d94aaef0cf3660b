package main

import (
	"fmt"
	"strings"

	"scrivener/internal/logging"
	"scrivener/internal/store"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	valueStyle  = lipgloss.NewStyle().Bold(true)
)

func openStore() (*store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	root, err := cfg.ResolveProjectRoot()
	if err != nil {
		return nil, err
	}
	return store.New(root, cfg.MetaFileName, logging.GetDefault())
}

func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [directory]",
		Short: "Show a summary of the project metadata",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}

			plans, err := st.ReadAllPlans()
			if err != nil {
				return err
			}
			pending, err := st.ReadTodos(store.StatusPending)
			if err != nil {
				return err
			}
			completed, err := st.ReadTodos(store.StatusCompleted)
			if err != nil {
				return err
			}
			docs, err := st.ReadAllDocs()
			if err != nil {
				return err
			}
			changes, err := st.GetRecentChanges()
			if err != nil {
				return err
			}

			fmt.Println(headerStyle.Render("scrivener status"))
			fmt.Println(labelStyle.Render("Metadata file: ") + st.MetaPath())
			fmt.Println()
			line := func(label string, n int) {
				fmt.Printf("%s %s\n", labelStyle.Render(fmt.Sprintf("%-18s", label)), valueStyle.Render(fmt.Sprintf("%d", n)))
			}
			line("Plans", len(plans))
			line("Pending todos", len(pending))
			line("Completed todos", len(completed))
			line("Documented dirs", len(docs))
			line("Recent changes", len(changes.Current))

			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			table, err := st.ListStatus(dir)
			if err != nil {
				return err
			}
			fmt.Println()
			fmt.Print(renderMarkdown(table))
			return nil
		},
	}
}

func plansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans [plan-id]",
		Short: "Show recorded plans",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}

			if len(args) == 1 {
				plan, ok, err := st.ReadPlan(args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("plan not found: %s", args[0])
				}
				fmt.Print(renderMarkdown(fmt.Sprintf("# %s (%s)\n\n%s", plan.Title, plan.ID, plan.Content)))
				return nil
			}

			plans, err := st.ReadAllPlans()
			if err != nil {
				return err
			}
			if len(plans) == 0 {
				fmt.Println("No plans recorded.")
				return nil
			}

			var b strings.Builder
			b.WriteString("# Plans\n\n")
			for _, p := range plans {
				fmt.Fprintf(&b, "- **%s** %s (created %s)\n", p.ID, p.Title, p.CreatedAt)
			}
			fmt.Print(renderMarkdown(b.String()))
			return nil
		},
	}
}

func todosCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "todos",
		Short: "Show todos",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}

			todos, err := st.ReadTodos(status)
			if err != nil {
				return err
			}
			if len(todos) == 0 {
				fmt.Printf("No %s todos.\n", status)
				return nil
			}

			var b strings.Builder
			fmt.Fprintf(&b, "# %s todos\n\n", status)
			for _, t := range todos {
				fmt.Fprintf(&b, "- **%s** %s (plan %s)\n", t.ID, t.Content, t.RelatedPlan)
			}
			fmt.Print(renderMarkdown(b.String()))
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", store.StatusPending, "filter by status: pending or completed")
	return cmd
}
