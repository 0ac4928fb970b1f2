// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

/*
Package supervisor runs daemon mode under a suture v4 supervisor tree.

The tree has two layers so that a crashing HTTP server never stops the
sync schedule and a failing sync service never takes the API down:

	RootSupervisor ("pacekeeper")
	├── SyncSupervisor ("sync-layer")
	│   └── SyncService (periodic runs of sync.Manager)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Supervisor events (service start, failure, restart, backoff) are logged
through sutureslog on top of the zerolog-backed slog handler.

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddSyncService(services.NewSyncService(manager))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	err = tree.Serve(ctx)

Services live in the services subpackage. Each adapts a component's own
lifecycle (Start/Stop, ListenAndServe/Shutdown) to suture's Serve(ctx).
*/
package supervisor
