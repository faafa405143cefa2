package main

import (
	"github.com/spf13/cobra"

	"github.com/abatilo/taskflow/internal/app"
	"github.com/abatilo/taskflow/internal/export"
	"github.com/abatilo/taskflow/internal/form"
	"github.com/abatilo/taskflow/internal/task"
	"github.com/abatilo/taskflow/internal/view"
)

// draftFlags are the flags shared by add and edit.
type draftFlags struct {
	title       string
	description string
	due         string
	priority    string
	categoryID  string
	clearDue    bool
}

func (f *draftFlags) register(cmd *cobra.Command, withTitle bool) {
	if withTitle {
		cmd.Flags().StringVar(&f.title, "title", "", "Task title")
	}
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Task description")
	cmd.Flags().StringVar(&f.due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&f.priority, "priority", "p", string(task.PriorityMedium), "Priority (high, medium, low)")
	cmd.Flags().StringVarP(&f.categoryID, "category", "c", task.DefaultCategoryID, "Category id (see 'taskflow categories')")
}

// fields returns the raw values of the flags the user actually set.
func (f *draftFlags) fields(cmd *cobra.Command) form.Fields {
	var out form.Fields
	if cmd.Flags().Changed("title") {
		out.Title = &f.title
	}
	if cmd.Flags().Changed("description") {
		out.Description = &f.description
	}
	if cmd.Flags().Changed("due") {
		out.DueDate = &f.due
	}
	if f.clearDue {
		empty := ""
		out.DueDate = &empty
	}
	if cmd.Flags().Changed("priority") {
		out.Priority = &f.priority
	}
	if cmd.Flags().Changed("category") {
		out.CategoryID = &f.categoryID
	}
	return out
}

// addCmd implements 'taskflow add'.
func addCmd() *cobra.Command {
	var flags draftFlags
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new task",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fields := flags.fields(cmd)
			fields.Title = &args[0]

			withApp(func(a *app.App) error {
				d, err := fields.ApplyTo(task.NewDraft())
				if err != nil {
					return err
				}
				t, err := a.CreateTask(d)
				if err != nil {
					return err
				}
				printMessage(app.NoticeCreated)
				printOutput(formatter.FormatTask(t))
				return nil
			})
		},
	}
	flags.register(cmd, false)
	return cmd
}

// editCmd implements 'taskflow edit'. Flags that are not given keep the
// task's current values.
func editCmd() *cobra.Command {
	var flags draftFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a task",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fields := flags.fields(cmd)

			withApp(func(a *app.App) error {
				existing, err := a.Get(args[0])
				if err != nil {
					return err
				}

				session := a.Form()
				d, err := fields.ApplyTo(session.Begin(existing))
				if err != nil {
					return err
				}
				if err = session.SetDraft(d); err != nil {
					return err
				}
				t, err := session.Commit()
				if err != nil {
					return err
				}
				printMessage(app.NoticeUpdated)
				printOutput(formatter.FormatTask(t))
				return nil
			})
		},
	}
	flags.register(cmd, true)
	cmd.Flags().BoolVar(&flags.clearDue, "clear-due", false, "Remove the due date")
	cmd.MarkFlagsMutuallyExclusive("due", "clear-due")
	return cmd
}

// listCmd implements 'taskflow list'.
func listCmd() *cobra.Command {
	var status, categoryID, search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Run: func(_ *cobra.Command, _ []string) {
			statusFilter, err := view.ParseStatusFilter(status)
			if err != nil {
				printError(err)
			}

			withApp(func(a *app.App) error {
				a.SetFilter(view.Filter{Status: statusFilter, Category: categoryID, Search: search})
				printOutput(formatter.FormatTaskList(a.VisibleTasks()))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", string(view.StatusAll), "Status filter (all, pending, completed)")
	cmd.Flags().StringVarP(&categoryID, "category", "c", view.AllCategories, "Category id, or 'all'")
	cmd.Flags().StringVarP(&search, "search", "q", "", "Case-insensitive text to find in title or description")
	return cmd
}

// showCmd implements 'taskflow show'.
func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			withApp(func(a *app.App) error {
				t, err := a.Get(args[0])
				if err != nil {
					return err
				}
				printOutput(formatter.FormatTask(t))
				return nil
			})
		},
	}
}

// toggleCmd implements 'taskflow toggle'.
func toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <id>",
		Aliases: []string{"done"},
		Short:   "Mark a task completed, or reopen a completed task",
		Args:    cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			withApp(func(a *app.App) error {
				t, err := a.ToggleTask(args[0])
				if err != nil {
					return err
				}
				printMessage(app.ToggleNotice(t.Status))
				printOutput(formatter.FormatTask(t))
				return nil
			})
		},
	}
}

// rmCmd implements 'taskflow rm'.
func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a task",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			withApp(func(a *app.App) error {
				a.DeleteTask(args[0])
				printMessage(app.NoticeDeleted)
				return nil
			})
		},
	}
}

// statsCmd implements 'taskflow stats'.
func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counts",
		Run: func(_ *cobra.Command, _ []string) {
			withApp(func(a *app.App) error {
				printOutput(formatter.FormatStats(a.Stats()))
				return nil
			})
		},
	}
}

// categoriesCmd implements 'taskflow categories'.
func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		Run: func(_ *cobra.Command, _ []string) {
			withApp(func(a *app.App) error {
				printOutput(formatter.FormatCategories(a.Categories().All()))
				return nil
			})
		},
	}
}

// exportCmd implements 'taskflow export'.
func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write every task as a markdown file",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			withApp(func(a *app.App) error {
				n, err := export.WriteDir(args[0], a.CurrentTasks(), a.Categories())
				if err != nil {
					return err
				}
				printMessage("Exported %d task(s) to %s", n, args[0])
				return nil
			})
		},
	}
}
