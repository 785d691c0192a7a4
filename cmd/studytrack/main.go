package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"studytrack/internal/app"
	"studytrack/internal/config"
	"studytrack/internal/export"
	"studytrack/internal/model"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer
// a.Close(). operation identifies the CLI command being run (e.g. "Serve",
// "AddReminder").
func newApp(operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.New(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

var rootCmd = &cobra.Command{
	Use:   "studytrack",
	Short: "Personal study and wellbeing tracker",
}

// config command

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		instanceID := uuid.New().String()
		cfg := config.NewConfig(instanceID, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Instance ID: %s\n", instanceID)
		fmt.Printf("Base Dir:    %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Instance ID: %s\n", cfg.InstanceID)
		fmt.Printf("Listen Addr: %s\n", cfg.Addr)
		fmt.Printf("Owner:       %d\n", cfg.DefaultOwner)
		fmt.Printf("Store:       %s\n", cfg.Store.Type)
		fmt.Printf("Log Dir:     %s\n", cfg.LogDir)
		return nil
	},
}

// serve command

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Serve")
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return a.Serve(ctx)
	},
}

// add command

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new entry",
}

var addReminderCmd = &cobra.Command{
	Use:   "reminder",
	Short: "Add a reminder",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		at, _ := cmd.Flags().GetString("time")
		category, _ := cmd.Flags().GetString("category")

		a, err := newApp("AddReminder")
		if err != nil {
			return err
		}
		defer a.Close()

		r, err := a.AddReminder(cmd.Context(), model.InsertReminder{Title: title, Time: at, Category: category})
		if err != nil {
			return err
		}
		fmt.Printf("Added reminder %d: %s at %s\n", r.ID, r.Title, r.Time)
		return nil
	},
}

var addDiaryCmd = &cobra.Command{
	Use:   "diary",
	Short: "Add a diary entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		content, _ := cmd.Flags().GetString("content")
		mood, _ := cmd.Flags().GetString("mood")

		a, err := newApp("AddDiaryEntry")
		if err != nil {
			return err
		}
		defer a.Close()

		e, err := a.AddDiaryEntry(cmd.Context(), model.InsertDiaryEntry{Title: title, Content: content, Mood: mood})
		if err != nil {
			return err
		}
		fmt.Printf("Added diary entry %d: %s\n", e.ID, e.Title)
		return nil
	},
}

var addMoodCmd = &cobra.Command{
	Use:   "mood MOOD",
	Short: "Record a mood check-in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("AddMoodEntry")
		if err != nil {
			return err
		}
		defer a.Close()

		e, err := a.AddMoodEntry(cmd.Context(), model.InsertMoodEntry{Mood: args[0]})
		if err != nil {
			return err
		}
		fmt.Printf("Recorded mood %q at %s\n", e.Mood, e.CreatedAt.Format("15:04"))
		return nil
	},
}

var addMaterialCmd = &cobra.Command{
	Use:   "material",
	Short: "Add a study material",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		mtype, _ := cmd.Flags().GetString("type")
		url, _ := cmd.Flags().GetString("url")
		category, _ := cmd.Flags().GetString("category")

		a, err := newApp("AddStudyMaterial")
		if err != nil {
			return err
		}
		defer a.Close()

		m, err := a.AddStudyMaterial(cmd.Context(), model.InsertStudyMaterial{
			Title:    title,
			Type:     mtype,
			URL:      url,
			Category: category,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added %s %d: %s\n", m.Type, m.ID, m.Title)
		return nil
	},
}

// list command

var listCmd = &cobra.Command{
	Use:       "list KIND",
	Short:     "List records of one kind (reminders, diary, moods, materials)",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"reminders", "diary", "moods", "materials"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("List")
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		switch args[0] {
		case "reminders":
			reminders, err := a.ListReminders(ctx)
			if err != nil {
				return err
			}
			if len(reminders) == 0 {
				fmt.Println("No reminders.")
				return nil
			}
			for _, r := range reminders {
				mark := " "
				if r.Completed {
					mark = "x"
				}
				fmt.Printf("[%s] %d  %s  %s  (%s)\n", mark, r.ID, r.Time, r.Title, r.Category)
			}
		case "diary":
			entries, err := a.ListDiaryEntries(ctx)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No diary entries.")
				return nil
			}
			for _, e := range entries {
				fmt.Printf("%d  %s  %-8s  %s\n", e.ID, e.CreatedAt.Format("2006-01-02"), e.Mood, e.Title)
			}
		case "moods":
			entries, err := a.ListMoodEntries(ctx)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No mood entries.")
				return nil
			}
			for _, e := range entries {
				fmt.Printf("%s  %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.Mood)
			}
		case "materials":
			materials, err := a.ListStudyMaterials(ctx)
			if err != nil {
				return err
			}
			if len(materials) == 0 {
				fmt.Println("No study materials.")
				return nil
			}
			for _, m := range materials {
				line := fmt.Sprintf("%d  [%s]  %s  (%s)", m.ID, m.Type, m.Title, m.Category)
				if m.URL != "" {
					line += "  " + m.URL
				}
				fmt.Println(line)
			}
		default:
			return fmt.Errorf("unknown kind %q", args[0])
		}
		return nil
	},
}

// done command

var doneCmd = &cobra.Command{
	Use:   "done ID",
	Short: "Mark a reminder completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("CompleteReminder")
		if err != nil {
			return err
		}
		defer a.Close()

		r, err := a.CompleteReminder(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("Completed: %s\n", r.Title)
		return nil
	},
}

// rm command

var rmCmd = &cobra.Command{
	Use:       "rm KIND ID",
	Short:     "Delete a record (reminders, diary, mood, materials)",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"reminders", "diary", "mood", "materials"},
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[1])
		if err != nil {
			return err
		}

		a, err := newApp("Delete")
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		switch args[0] {
		case "reminders":
			err = a.DeleteReminder(ctx, id)
		case "diary":
			err = a.DeleteDiaryEntry(ctx, id)
		case "mood":
			err = a.DeleteMoodEntry(ctx, id)
		case "materials":
			err = a.DeleteStudyMaterial(ctx, id)
		default:
			return fmt.Errorf("unknown kind %q", args[0])
		}
		if err != nil {
			return err
		}
		fmt.Println("Deleted.")
		return nil
	},
}

// search command

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search diary entries (or study materials with --materials)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		materials, _ := cmd.Flags().GetBool("materials")

		a, err := newApp("Search")
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if materials {
			hits, err := a.SearchStudyMaterials(ctx, args[0])
			if err != nil {
				return err
			}
			if len(hits) == 0 {
				fmt.Println("No matches.")
				return nil
			}
			for _, m := range hits {
				fmt.Printf("%d  [%s]  %s  (%s)\n", m.ID, m.Type, m.Title, m.Category)
			}
			return nil
		}

		hits, err := a.SearchDiaryEntries(ctx, args[0])
		if err != nil {
			return err
		}
		if len(hits) == 0 {
			fmt.Println("No matches.")
			return nil
		}
		for _, e := range hits {
			fmt.Printf("%d  %s  %-8s  %s\n", e.ID, e.CreatedAt.Format("2006-01-02"), e.Mood, e.Title)
		}
		return nil
	},
}

// export command

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export diary entries to a JSON document",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		encrypt, _ := cmd.Flags().GetBool("encrypt")

		a, err := newApp("ExportDiary")
		if err != nil {
			return err
		}
		defer a.Close()

		var passphrase string
		if encrypt {
			passphrase, err = readPassphrase()
			if err != nil {
				return err
			}
		}

		path, n, err := a.ExportDiary(cmd.Context(), out, passphrase)
		if err != nil {
			if errors.Is(err, export.ErrNoEntries) {
				fmt.Println("No diary entries to export.")
				return nil
			}
			return fmt.Errorf("export failed: %w", err)
		}

		fmt.Printf("Exported %d entries to %s\n", n, path)
		return nil
	},
}

// readPassphrase prompts twice without echo and requires both reads to
// match.
func readPassphrase() (string, error) {
	fmt.Fprint(os.Stderr, "Passphrase: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}

	fmt.Fprint(os.Stderr, "Confirm passphrase: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}

	if string(first) != string(second) {
		return "", fmt.Errorf("passphrases do not match")
	}
	if len(first) == 0 {
		return "", fmt.Errorf("passphrase must not be empty")
	}
	return string(first), nil
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	addReminderCmd.Flags().String("title", "", "reminder title")
	addReminderCmd.Flags().String("time", "", "reminder time, e.g. 14:00")
	addReminderCmd.Flags().String("category", "", "reminder category")

	addDiaryCmd.Flags().String("title", "", "entry title")
	addDiaryCmd.Flags().String("content", "", "entry text")
	addDiaryCmd.Flags().String("mood", "", "one of: great, good, okay, down, stressed")

	addMaterialCmd.Flags().String("title", "", "material title")
	addMaterialCmd.Flags().String("type", "link", "material type, e.g. pdf, link, video")
	addMaterialCmd.Flags().String("url", "", "material URL")
	addMaterialCmd.Flags().String("category", "", "material category")

	addCmd.AddCommand(addReminderCmd)
	addCmd.AddCommand(addDiaryCmd)
	addCmd.AddCommand(addMoodCmd)
	addCmd.AddCommand(addMaterialCmd)

	searchCmd.Flags().Bool("materials", false, "search study materials instead of diary entries")

	exportCmd.Flags().StringP("output", "o", "", "output path (default under the configured export dir)")
	exportCmd.Flags().Bool("encrypt", false, "encrypt the export with a passphrase")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(exportCmd)
}
