// Command minirel is the interactive shell: one argument names the
// database environment directory, then statements run at the SQL> prompt
// until quit.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/tuannm99/minirel"
	"github.com/tuannm99/minirel/internal"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "minirel [db-environment-path]",
	Short:        "Run the minirel SQL shell against a database environment",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		var cfg *internal.MinirelConfig
		if cfgFile != "" {
			c, err := internal.LoadConfig(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}

		workdir := ""
		if len(args) == 1 {
			workdir = args[0]
		} else if cfg != nil {
			workdir = cfg.Storage.Workdir
		}
		if workdir == "" {
			return fmt.Errorf("missing database environment path")
		}

		db, err := minirel.NewDatabase(workdir)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		history := ""
		if cfg != nil {
			history = cfg.Repl.HistoryFile
		}
		return repl(db, history)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml)")
}

func repl(db *minirel.Database, historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "SQL> ",
		HistoryFile: historyFile,
	})
	if err != nil {
		return err
	}
	defer func() { _ = rl.Close() }()

	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buf.Reset()
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if buf.Len() == 0 {
			switch strings.TrimSpace(line) {
			case "":
				continue
			case "quit":
				return nil
			case "test":
				if err := db.SelfTest(); err != nil {
					fmt.Printf("Error: %v\n", err)
				} else {
					fmt.Println("ok")
				}
				continue
			}
		}

		buf.WriteString(line)
		buf.WriteByte('\n')
		if !statementComplete(buf.String()) {
			continue
		}

		stmt := strings.TrimSpace(buf.String())
		buf.Reset()

		result, err := db.ExecSQL(stmt)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		fmt.Println(result)
	}
}

// statementComplete reports whether buf holds a ';' outside single quotes.
func statementComplete(buf string) bool {
	inQuote := false
	for _, r := range buf {
		if r == '\'' {
			inQuote = !inQuote
			continue
		}
		if r == ';' && !inQuote {
			return true
		}
	}
	return false
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
