/*
Package cli provides command-line helpers shared by the pagesweep commands.

Output Formatting:

Commands print either plain text or JSON:

	format, err := cli.ParseOutputFormat(flags.output)
	if err != nil {
		return err
	}
	if err := cli.NewFormatter(format).FormatTo(os.Stdout, result); err != nil {
		return err
	}

Signal Handling:

A run is cancelled on SIGINT or SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

Exit Codes:

ExitCode maps an error returned by a command onto the process exit status:
0 for success, 2 for configuration errors, and 1 for everything else.
*/
package cli
