package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andrewpaige1/lingodeck-api/config"
	"github.com/andrewpaige1/lingodeck-api/handlers"
	"github.com/andrewpaige1/lingodeck-api/reminders"
	"github.com/andrewpaige1/lingodeck-api/services"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the reminder scheduler",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := config.Connect(env)
		if err != nil {
			return err
		}
		store := services.New(db, env.Location, log)

		notifier := reminders.LogNotifier{Log: log}
		scheduler := reminders.New(env.Location, notifier, store, log)
		users, err := store.UsersWithReminders(cmd.Context())
		if err != nil {
			return err
		}
		scheduler.Load(users)
		scheduler.Start()
		defer scheduler.Stop()

		router, err := handlers.NewRouter(&handlers.DBHandler{
			Store:     store,
			Reminders: scheduler,
			Notifier:  notifier,
			Log:       log,
			DataDir:   env.DataDir,
		}, env)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              "0.0.0.0:" + env.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Info("listening", "addr", srv.Addr, "reminders", len(users))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
