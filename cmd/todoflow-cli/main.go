package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/go-kit/kit/log"
	"github.com/joho/godotenv"

	authclient "github.com/Vaishnavi4104/TodoFlow/authsvc/client"
	"github.com/Vaishnavi4104/TodoFlow/dashboard"
	"github.com/Vaishnavi4104/TodoFlow/tasksvc"
	taskclient "github.com/Vaishnavi4104/TodoFlow/tasksvc/client"
)

const version = "1.0.0"

func main() {
	godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var logger log.Logger
	{
		logger = log.NewLogfmtLogger(os.Stderr)
		logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	}

	serverURL := getEnv("SERVER_URL", "http://localhost:8000")

	authEndpoints, err := authclient.New(serverURL, logger)
	if err != nil {
		fatal(logger, err)
	}
	taskEndpoints, err := taskclient.New(serverURL, logger)
	if err != nil {
		fatal(logger, err)
	}

	store, err := dashboard.NewFileStore(getEnv("TODOFLOW_CONFIG_DIR", ""))
	if err != nil {
		fatal(logger, err)
	}

	ctx := context.Background()
	session := dashboard.NewSession(ctx, authEndpoints, store, logger)
	board := dashboard.NewBoard(taskEndpoints, session, logger)

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		name := fs.String("name", "", "display name")
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		fs.Parse(args)

		if err := session.Register(ctx, *name, *email, *password); err != nil {
			fatal(logger, err)
		}
		fmt.Printf("signed in as %s\n", session.User().Email)

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		fs.Parse(args)

		if err := session.Login(ctx, *email, *password); err != nil {
			fatal(logger, err)
		}
		fmt.Printf("signed in as %s\n", session.User().Email)

	case "logout":
		session.Logout()
		fmt.Println("signed out")

	case "whoami":
		if !session.IsAuthenticated() {
			fmt.Println("not signed in")
			os.Exit(1)
		}
		fmt.Printf("%s <%s>\n", session.User().Name, session.User().Email)

	case "theme":
		if len(args) == 0 {
			fmt.Println(store.Theme())
			return
		}
		theme := args[0]
		if theme != dashboard.ThemeLight && theme != dashboard.ThemeDark {
			fatal(logger, fmt.Errorf("unknown theme %q", theme))
		}
		if err := store.SetTheme(theme); err != nil {
			fatal(logger, err)
		}

	case "list":
		fs := flag.NewFlagSet("list", flag.ExitOnError)
		filter := fs.String("filter", "all", "all, completed or pending")
		sortBy := fs.String("sort", "", "dueDate or priority")
		fs.Parse(args)

		if err := board.Refresh(ctx); err != nil {
			fatal(logger, err)
		}

		view := dashboard.View(board.Tasks(), dashboard.Filter(*filter), dashboard.SortOrder(*sortBy))
		printTasks(view)

	case "add":
		fs := flag.NewFlagSet("add", flag.ExitOnError)
		title := fs.String("title", "", "task title")
		description := fs.String("description", "", "task description")
		due := fs.String("due", "", "due date, YYYY-MM-DD")
		priority := fs.String("priority", "", "High, Medium or Low")
		fs.Parse(args)

		draft := dashboard.Draft{
			Title:       *title,
			Description: *description,
			DueDate:     *due,
			Priority:    *priority,
		}
		fresh, err := draft.Task()
		if err != nil {
			fatal(logger, err)
		}
		task, err := board.Create(ctx, fresh)
		if err != nil {
			fatal(logger, err)
		}
		fmt.Printf("created %s\n", task.ID)

	case "edit":
		if len(args) < 1 {
			fatal(logger, fmt.Errorf("usage: edit <task-id> [flags]"))
		}
		taskID, args := args[0], args[1:]

		if err := board.Refresh(ctx); err != nil {
			fatal(logger, err)
		}
		task, err := board.Task(taskID)
		if err != nil {
			fatal(logger, err)
		}

		draft := dashboard.NewDraft(task)
		fs := flag.NewFlagSet("edit", flag.ExitOnError)
		fs.StringVar(&draft.Title, "title", draft.Title, "task title")
		fs.StringVar(&draft.Description, "description", draft.Description, "task description")
		fs.StringVar(&draft.DueDate, "due", draft.DueDate, "due date, YYYY-MM-DD; empty clears it")
		fs.StringVar(&draft.Priority, "priority", draft.Priority, "High, Medium or Low; empty clears it")
		fs.Parse(args)

		if _, err := draft.Save(ctx, board); err != nil {
			fatal(logger, err)
		}
		fmt.Printf("updated %s\n", taskID)

	case "done":
		if len(args) < 1 {
			fatal(logger, fmt.Errorf("usage: done <task-id>"))
		}
		if err := board.Refresh(ctx); err != nil {
			fatal(logger, err)
		}
		task, err := board.Task(args[0])
		if err != nil {
			fatal(logger, err)
		}

		task.Completed = !task.Completed
		task, err = board.Update(ctx, task)
		if err != nil {
			fatal(logger, err)
		}
		if task.Completed {
			fmt.Printf("completed %s\n", task.ID)
		} else {
			fmt.Printf("reopened %s\n", task.ID)
		}

	case "rm":
		if len(args) < 1 {
			fatal(logger, fmt.Errorf("usage: rm <task-id>"))
		}
		if err := board.Refresh(ctx); err != nil {
			fatal(logger, err)
		}
		if err := board.Delete(ctx, args[0]); err != nil {
			fatal(logger, err)
		}
		fmt.Printf("deleted %s\n", args[0])

	case "subtask":
		if len(args) < 2 {
			fatal(logger, fmt.Errorf("usage: subtask <task-id> <index>"))
		}
		index, err := strconv.Atoi(args[1])
		if err != nil {
			fatal(logger, fmt.Errorf("index must be a number"))
		}
		if err := board.Refresh(ctx); err != nil {
			fatal(logger, err)
		}
		if _, err := board.ToggleSubtask(ctx, args[0], index); err != nil {
			fatal(logger, err)
		}

	case "version":
		fmt.Println(version)

	case "help":
		usage()

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func printTasks(tasks []tasksvc.Task) {
	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDONE\tTITLE\tDUE\tPRIORITY\tSUBTASKS")
	for _, t := range tasks {
		done := " "
		if t.Completed {
			done = "x"
		}
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02")
		}
		completed := 0
		for _, s := range t.Subtasks {
			if s.Completed {
				completed++
			}
		}
		fmt.Fprintf(w, "%s\t[%s]\t%s\t%s\t%s\t%d/%d\n",
			t.ID, done, t.Title, due, t.Priority, completed, len(t.Subtasks))
	}
	w.Flush()
}

func usage() {
	fmt.Fprintf(os.Stderr, "USAGE\n")
	fmt.Fprintf(os.Stderr, "  %s <command> [flags]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "COMMANDS\n")
	w := tabwriter.NewWriter(os.Stderr, 0, 2, 2, ' ', 0)
	fmt.Fprintf(w, "\tregister\tcreate an account and sign in\n")
	fmt.Fprintf(w, "\tlogin\tsign in\n")
	fmt.Fprintf(w, "\tlogout\tsign out\n")
	fmt.Fprintf(w, "\twhoami\tshow the signed-in user\n")
	fmt.Fprintf(w, "\ttheme\tshow or set the theme (light, dark)\n")
	fmt.Fprintf(w, "\tlist\tlist tasks, with -filter and -sort\n")
	fmt.Fprintf(w, "\tadd\tcreate a task\n")
	fmt.Fprintf(w, "\tedit\tchange a task\n")
	fmt.Fprintf(w, "\tdone\ttoggle a task's completion\n")
	fmt.Fprintf(w, "\trm\tdelete a task\n")
	fmt.Fprintf(w, "\tsubtask\ttoggle a subtask by position\n")
	fmt.Fprintf(w, "\tversion\tprint the version\n")
	w.Flush()
	fmt.Fprintf(os.Stderr, "\n")
}

func fatal(logger log.Logger, err error) {
	logger.Log("err", err)
	os.Exit(1)
}

func getEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = fallback
	}
	return value
}
