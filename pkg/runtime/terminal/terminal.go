package terminal

import (
	"io"
	"os"

	"github.com/de-tools/power-quote/pkg/runtime/terminal/commands"
	"github.com/de-tools/power-quote/pkg/runtime/terminal/export"

	handlers "github.com/de-tools/power-quote/pkg/handlers/quote"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	quote    handlers.Service
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Quote  handlers.Service
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		quote:    opts.Quote,
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "power-quote",
		Short: "Battery/solar/generator system quoting tool",
	}

	cmd.AddCommand(commands.NewQuoteCmd(cli.quote, cli.reporter))
	cmd.AddCommand(commands.NewRatesCmd(cli.quote))

	return cmd
}
