package repl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ifxcli/ifxcli/internal/ifx/session"
	"github.com/ifxcli/ifxcli/internal/ifxcli/config"
	"github.com/ifxcli/ifxcli/internal/util/sysutil"
	"github.com/peterh/liner"
)

type Repl struct {
	conf        config.Config
	conn        *session.Connection
	ctx         context.Context
	stop        context.CancelFunc
	inTx        bool
	historyPath string
}

func NewRepl(
	ctx context.Context,
	stop context.CancelFunc,
	conf config.Config,
	conn *session.Connection,
) Repl {
	return Repl{
		conf:        conf,
		conn:        conn,
		ctx:         ctx,
		stop:        stop,
		historyPath: filepath.Join(os.TempDir(), ".ifxcli_history"),
	}
}

func (r *Repl) Start() error {
	target := r.conf.Resolved.Redacted()
	if target == "" {
		target = "in-memory database"
	}

	fmt.Println()
	fmt.Printf("Connected to %s\n", target)
	fmt.Println(`Enter ".help" for usage hints and ".quit" or "CTRL+C" to quit`)
	fmt.Println()

	for {
		select {
		case <-r.ctx.Done():
			return nil
		default:
			input := r.prompt()

			if input == "" {
				continue
			}

			if input == "exit" || input == ".exit" || input == ".quit" {
				r.Shutdown()
				return nil
			}

			if input == "clear" || input == ".clear" {
				sysutil.ClearTerminal()
				continue
			}

			if input == "help" || input == ".help" {
				cmdHelp()
				continue
			}

			if strings.HasPrefix(input, ".") {
				cmdDot(r, input)
				continue
			}

			cmdQuery(r, input)
		}
	}
}

// Shutdown stops the REPL.
func (r *Repl) Shutdown() {
	r.stop()
}

// cmdDot dispatches ".name arg..." commands.
func cmdDot(r *Repl, input string) {
	fields := strings.Fields(input)
	name, args := fields[0], fields[1:]

	switch name {
	case ".tables":
		cmdTables(r, args)
	case ".columns":
		cmdColumns(r, args)
	case ".keys":
		cmdKeys(r, args)
	case ".count":
		cmdCount(r, args)
	default:
		fmt.Println("Unknown command, type .help for usage hints")
	}
}

// cleanError removes the unwanted text from the error message. So, the error
// is more readable.
func (r *Repl) cleanError(errStr string) string {
	errStr = strings.ReplaceAll(errStr, "failed to execute statement:", "")
	errStr = strings.ReplaceAll(errStr, "execution failed:", "")
	return strings.TrimSpace(errStr)
}

// prompt shows the prompt and reads the input from the user.
func (r *Repl) prompt() string {
	label := "ifxcli> "
	if r.inTx {
		label = "ifxcli(tx)> "
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(cmdHelpCompleter)

	if file, err := os.Open(r.historyPath); err == nil {
		_, _ = line.ReadHistory(file)
		file.Close()
	}

	prompt, err := line.Prompt(label)
	if err != nil {
		if err == liner.ErrPromptAborted {
			fmt.Println("CTRL+C pressed, exiting...")
			return ".quit"
		}
		return ""
	}

	line.AppendHistory(prompt)
	if file, err := os.Create(r.historyPath); err == nil {
		_, _ = line.WriteHistory(file)
		file.Close()
	}

	return strings.TrimSpace(prompt)
}
