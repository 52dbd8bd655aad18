package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lowcarboncode/gitdis/internal/config"
	"github.com/lowcarboncode/gitdis/internal/gitdis"
	"github.com/lowcarboncode/gitdis/internal/httpapi"
	"github.com/lowcarboncode/gitdis/internal/logging"
	"github.com/lowcarboncode/gitdis/internal/service"
	"github.com/lowcarboncode/gitdis/internal/ui"
)

var bootstrapPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP façade and sync every configured branch",
	Long: `serve loads configuration, builds the branch registry, starts every
branch named in the bootstrap file (if any), and serves the HTTP API
until interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&bootstrapPath, "config", "gitdis.yaml", "Path to the declarative branch bootstrap file")
}

func runServe(cmd *cobra.Command, args []string) error {
	out := ui.NewOutput(os.Stdout)
	if format != "" {
		out.SetFormat(ui.OutputFormat(format))
	}
	if noColor {
		out.SetColorEnabled(false)
	}

	cfg, err := config.Load(bootstrapPath)
	if err != nil {
		return err
	}

	logLevel := cfg.LogLevel
	if verbose {
		logLevel = "debug"
	}
	logFormat := "human"
	if quiet {
		logFormat = "json"
	}
	log := logging.Init(logLevel, logFormat)

	co := gitdis.New(gitdis.GitdisSettings{
		TotalCacheItems: cfg.TotalCacheItems,
		CloneRoot:       cfg.LocalClonePath,
	}, log)
	svc := service.New(co)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	registered := 0
	for _, settings := range cfg.Branches {
		if _, err := co.AddBranch(settings); err != nil {
			log.WithError(err).WithField("url", settings.URL).Warn("serve: skipping branch from bootstrap file")
			continue
		}
		registered++
	}
	co.StartAll(ctx)

	if !quiet {
		out.Successf("registered %d branch(es) from %s", registered, bootstrapPath)
	}

	go co.Events(ctx, func(evt gitdis.TaggedEvent) {
		log.WithFields(map[string]interface{}{
			"branch": evt.BranchKey,
			"kind":   evt.Event.Kind,
			"key":    evt.Event.Key,
		}).Debug("cache event")
	})

	router := httpapi.NewRouter(svc, log)
	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: router}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if !quiet {
		out.Infof("listening on :%s", cfg.HTTPPort)
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
