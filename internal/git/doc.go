// Package git runs the version-control operations exposed to the UI.
//
// Every operation is triggered for a destination (one UI window or client)
// and reports its result asynchronously to that destination. The trigger
// itself only answers whether the execution was admitted.
//
// Key Components:
//
// Service: Owns the task registry, the executor and the publisher. Each
// exported operation method admits the (operation, destination) key, spawns
// one git process in the background and publishes exactly one result event
// when the process settles.
//
// Operation labels: OpStatus, OpLog and the rest name each operation.
// A label is the operation part of the admission key, the name used to
// cancel an execution, and the key to its result event via ResultEvent.
//
// Example Usage:
//
//	svc, err := git.New(git.Options{
//	    Program:   "git",
//	    WorkDir:   "/path/to/repo",
//	    Publisher: hub,
//	    Logger:    logger,
//	})
//	if err != nil {
//	    return err
//	}
//	defer svc.Close(context.Background())
//
//	if err := svc.Status("window-1"); err != nil {
//	    // only admission errors are returned here
//	}
//
// Error Handling:
//
// A trigger returns an admission error when the same operation is already
// running for the same destination. Spawn failures, nonzero exits, parse
// failures and cancellations are delivered in the result envelope instead.
//
// Thread Safety:
//
// All Service methods are safe for concurrent use. Executions for different
// keys run in parallel with no ordering between them; two executions of the
// same key never overlap.
package git
