// Package ifxcli implements the interactive SQL client.
package ifxcli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ifxcli/ifxcli/internal/ifx/driver/sqlitedrv"
	"github.com/ifxcli/ifxcli/internal/ifx/session"
	"github.com/ifxcli/ifxcli/internal/ifxcli/config"
	"github.com/ifxcli/ifxcli/internal/ifxcli/repl"
	"github.com/ifxcli/ifxcli/internal/log"
	"github.com/ifxcli/ifxcli/internal/version"
)

// Run runs the ifxcli REPL.
func Run(ctx context.Context) error {
	conf := config.MustParse(os.Args)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(version.CLIVersion())

	logger := log.NewNopLogger()
	if conf.Debug {
		logger = log.NewLogger(os.Stderr)
	}

	conn, err := session.Connect(session.Config{
		Driver:  sqlitedrv.New(),
		ConnStr: conf.Resolved.String(),
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = conn.Close()
	}()

	rp := repl.NewRepl(ctx, stop, conf, conn)
	defer rp.Shutdown()
	go func() {
		if err := rp.Start(); err != nil {
			fmt.Println(err)
			stop()
		}
	}()

	<-ctx.Done()
	fmt.Printf("\nGoodbye!\n\n")
	return nil
}
