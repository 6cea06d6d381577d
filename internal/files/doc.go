// Package files provides the small set of file system operations the
// pipeline needs to publish its output safely.
//
// Manager creates temporary files beside their target and replaces the
// target with a single rename, so readers never observe a half-written file.
// It also detects when two paths name the same file, which the pipeline uses
// to refuse overwriting its own input.
//
// Example usage:
//
//	manager := files.NewManager(logger)
//
//	tmp, err := manager.CreateTemp("out/data_cleaned.csv")
//	if err != nil {
//	    return err
//	}
//	// write and close tmp
//	err = manager.ReplaceFile(tmp.Name(), "out/data_cleaned.csv")
package files
