/*
Package pipeline sequences the cleaning steps over many series.

Each series is expanded onto a regular grid, optionally smoothed, and
optionally passed through a spike remover. Series are processed concurrently;
statistics of every series are merged into one report.Record once its worker
is done.

	p := pipeline.New(cfg,
		pipeline.WithFetcher(client),
		pipeline.WithLogger(logger))
	res, err := p.Run(ctx, queries)
	if err != nil {
		return err // canceled
	}
	if res.Err != nil {
		logger.Warn("some series failed", zap.Error(res.Err))
	}
	res.Record.WriteText(os.Stdout)
*/
package pipeline
