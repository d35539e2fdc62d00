/*
Package cli provides the building blocks of the valcheck command.

Runner ties the pipeline together: it parses configuration files, analyzes
them, builds reports and records metrics. Files are analyzed concurrently:

	runner, err := cli.NewRunner(cfg, logger, collector)
	files, err := cli.CollectFiles(args, cfg.Watch.Extensions)
	results, err := runner.AnalyzeFiles(ctx, files, cli.NewProgressReporter(os.Stderr))
	err = runner.Render(os.Stdout, report.FormatSARIF, false, version, results)

Commands return a CommandError carrying the process exit code; ExitCode
maps any error to one:

	0  every file analyzed without failing diagnostics
	1  an analysis reported errors, or warnings in strict mode
	2  a file could not be loaded, or the command was misused

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()
*/
package cli
