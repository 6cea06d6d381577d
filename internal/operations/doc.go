// Package operations drives a cleaning run of the World Happiness dataset.
//
// A run is a fixed sequence of steps, each an implementation of Step:
//
//	load → exclude → resolve → normalize → interpolate → rank → validate → publish
//
// Steps communicate only through State, which holds the frame each step
// produced and the reports gathered so far. The transformations themselves
// live in dataprocessing and countrycode; this package adds ordering,
// cancellation, post-condition checks, tracing and the single file write at
// the end.
//
// Manager stops at the first failing step and returns an *OperationError
// naming that step and, for post-condition failures, the check. Nothing is
// written unless every earlier step succeeded, and the output replaces any
// previous file with a single rename.
//
// Example usage:
//
//	manager, err := operations.NewManager(operations.Dependencies{Logger: logger})
//	if err != nil {
//	    return err
//	}
//	result, err := manager.Run(ctx, operations.Request{
//	    InputPath:  "data.csv",
//	    OutputPath: "data_cleaned.csv",
//	})
package operations
