package cli

import (
	"context"
	"net"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonviz/internal/config"
	"github.com/matzehuels/jsonviz/internal/server"
	"github.com/matzehuels/jsonviz/pkg/session"
)

type serveOpts struct {
	addr        string
	inputFormat string
	noBrowser   bool
	noEditor    bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [input]",
		Short: "Explore documents interactively in the browser",
		Long: `Start a local server hosting interactive sessions.

Each page shows one session: click a dot to expand or collapse a container,
drag to pan, scroll to zoom, and edit the document in the side panel. With
an input, every new page starts with that document loaded.

Sessions are kept in memory, or in files or MongoDB when configured in the
[sessions] section of the config file, and survive restarts of the server.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runServe(cmd.Context(), input, cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, "+server.DefaultAddr+")")
	cmd.Flags().StringVar(&opts.inputFormat, "input-format", "", "input format: json, yaml or auto")
	cmd.Flags().BoolVar(&opts.noBrowser, "no-browser", false, "do not open a browser")
	cmd.Flags().BoolVar(&opts.noEditor, "no-editor", false, "hide the document editor panel")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, input string, cmd *cobra.Command, opts serveOpts) error {
	cfg := c.Config

	var initial any
	title := appName
	if input != "" {
		runner := c.newRunner(ctx, false)
		doc, err := c.newLoader(runner.Cache, opts.inputFormat).Load(ctx, input)
		runner.Close()
		if err != nil {
			return err
		}
		initial = doc.Value
		title = displayName(input) + " · " + appName
	}

	store, err := c.newSessionStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	manager := session.NewManager(store, session.Options{
		Pipeline: cfg.PipelineOptions(),
		Logger:   c.Logger,
	}, cfg.Sessions.TTL.Duration)

	addr := cfg.Server.Addr
	if cmd.Flags().Changed("addr") {
		addr = opts.addr
	}
	srv := server.New(server.Config{
		Addr:        addr,
		Manager:     manager,
		Logger:      c.Logger,
		Initial:     initial,
		Title:       title,
		Editor:      cfg.Server.Editor && !opts.noEditor,
		IdleTimeout: cfg.Server.IdleTimeout.Duration,
	})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	url := "http://" + browserHost(ln.Addr().String()) + "/"

	printNewline()
	printSuccess("Serving %s", appName)
	printKeyValue("URL", StyleLink.Render(url))
	printKeyValue("Sessions", cfg.Sessions.Backend)
	if input != "" {
		printKeyValue("Document", input)
	}
	printNewline()
	printDetail("Press Ctrl+C to stop")
	if cfg.Server.OpenBrowser && !opts.noBrowser {
		if err := openBrowser(url); err != nil {
			c.Logger.Debug("could not open browser", "error", err)
		}
	}

	return srv.Serve(ctx, ln)
}

// browserHost replaces an unspecified listen host with localhost.
func browserHost(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	if host == "" || host == "::" || host == "0.0.0.0" || strings.HasPrefix(host, "[::]") {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}

// newSessionStore opens the configured session backend.
func (c *CLI) newSessionStore(ctx context.Context) (session.Store, error) {
	cfg := c.Config.Sessions
	switch cfg.Backend {
	case config.SessionsFile:
		dir := cfg.Dir
		if dir == "" {
			dir = filepath.Join(config.Dir(), "sessions")
		}
		return session.NewFileStore(dir)
	case config.SessionsMongo:
		return session.NewMongoStore(ctx, session.MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.Database,
			Collection: cfg.Collection,
		})
	}
	return session.NewMemoryStore(), nil
}
