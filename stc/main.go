package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/DavidCain/stay-the-course/cmd"
)

func main() {
	completion()

	// A .env file is a convenient home for the Alpha Vantage API key.
	godotenv.Load()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion answers shell completion requests and returns immediately in
// a normal run. Install with: COMP_INSTALL=1 stc
func completion() {
	configFlags := map[string]complete.Predictor{
		"config": predict.Files("*.yaml"),
	}
	root := &complete.Command{
		Flags: configFlags,
		Sub: map[string]*complete.Command{
			"status":    {Flags: configFlags},
			"rebalance": {Flags: map[string]complete.Predictor{"config": predict.Files("*.yaml"), "amount": predict.Something}},
			"equalize":  {Flags: configFlags},
			"project":   {Flags: map[string]complete.Predictor{"config": predict.Files("*.yaml"), "apy": predict.Something}},
			"stats":     {Flags: configFlags},
			"update":    {Flags: configFlags},
			"topic":     {Args: predict.Set{"readme", "config", "gnucash", "rebalance", "retirement", "*"}},
			"help":      {},
		},
	}
	root.Complete("stc")
}
