package cli

import (
	"time"

	"github.com/alexanderramin/meridian/internal/config"
	"github.com/alexanderramin/meridian/internal/prefs"
	"github.com/alexanderramin/meridian/internal/service"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// App holds the services and settings CLI commands and the TUI run against.
type App struct {
	Projects service.ProjectService
	Items    service.ItemService
	Timeline service.TimelineService
	Prefs    *prefs.Store
	Config   *config.Config
	Log      zerolog.Logger

	// Interactive is true when stdin and stdout are terminals; the bare
	// command then opens the TUI instead of printing help.
	Interactive bool

	// Now is the clock used for "today". Nil means time.Now.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) config() *config.Config {
	if a.Config == nil {
		c := config.DefaultConfig()
		a.Config = &c
	}
	return a.Config
}

// NewRootCmd creates the top-level "meridian" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "meridian",
		Short:         "Project tracker with a drag-and-drop timeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Interactive {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	// Read by main before the command tree runs; registered here so cobra
	// accepts it and lists it in help.
	root.PersistentFlags().BoolP("verbose", "v", false, "log to stderr at debug level")

	root.AddCommand(
		newProjectCmd(app),
		newItemCmd(app),
		newTimelineCmd(app),
		newTUICmd(app),
	)

	return root
}
