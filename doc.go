/*
Package analysistools browses HDF5 recordings made by the RTXI real-time
experiment platform.

A Panel opens a file read-only, walks its object hierarchy and classifies it
into a two-level tree: trials (groups ending in "Synchronous Data") and their
channels (the datasets inside, minus the "Channel Data" companion). The first
channel of the whole file is selected automatically. Plotting is enabled only
when the last open succeeded and found at least one trial.

# Usage

	panel, err := analysistools.New(
		analysistools.WithDataDir("/srv/recordings"),
		analysistools.WithCache(32),
	)
	if err != nil {
		log.Fatal(err)
	}

	tree, err := panel.OpenFile(ctx, "2024-05-01.h5")
	switch {
	case errors.Is(err, domain.ErrFileNotFound):
		// ask for another file
	case err != nil:
		log.Printf("open failed: %v", err)
	default:
		for _, trial := range tree.Trials {
			fmt.Println(trial.Path, len(trial.Channels))
		}
	}

# Front-ends

The same Panel backs the CLI (cmd/analysis-tools), the HTTP API
(pkg/adapters/http) and the MCP server (pkg/adapters/mcp). State can be
persisted through any ports.SessionStore.

# Real-time model

Panel also implements Plugin. Execute is the host's real-time tick and only
touches atomic counters, so it never waits on file traversal.
*/
package analysistools
