package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"domaincheck/internal/check"
	"domaincheck/internal/handler"
	"domaincheck/internal/utils"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

func newCmdServe(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the suite over HTTP and run it on a schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.runner()
			if err != nil {
				return err
			}

			var sched *check.Scheduler
			if a.cfg.EnableSchedule {
				sched = check.NewScheduler(r, a.cfg.Schedule)
				if err := sched.Start(); err != nil {
					return err
				}
			}

			e := echo.New()
			e.HideBanner = true
			e.Use(middleware.Logger())
			e.Use(middleware.Recover())
			handler.NewHandler(r).Register(e)

			go func() {
				if err := e.Start(":" + a.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					utils.Log.Fatal("shutting down the server", utils.Field("error", err.Error()))
				}
			}()

			// Graceful Shutdown
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			<-ctx.Done()

			if sched != nil {
				sched.Stop()
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}
	return cmd
}
