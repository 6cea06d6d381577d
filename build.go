//go:build ignore

// build.go - whr build script
// Usage: go run build.go [-target=TARGET]
// Targets: build, test, clean

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
)

const (
	module  = "whrpipe"
	binName = "whr"
)

var distDir = "dist"

func main() {
	target := flag.String("target", "build", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	color.Cyan("=== whr build ===")
	startTime := time.Now()

	var err error
	switch *target {
	case "build":
		err = build(*verbose)
	case "test":
		err = runTests(*verbose)
	case "clean":
		err = os.RemoveAll(distDir)
	default:
		fmt.Println("Targets: build, test, clean")
		os.Exit(1)
	}
	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}
	printSuccess(fmt.Sprintf("%s completed in %s", *target, time.Since(startTime).Round(time.Millisecond)))
}

func printInfo(msg string) {
	fmt.Printf("%s %s\n", color.BlueString("[INFO]"), msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s %s\n", color.GreenString("[SUCCESS]"), msg)
}

func printError(msg string) {
	fmt.Printf("%s %s\n", color.RedString("[ERROR]"), msg)
}

// gitCommit returns the short commit hash, "unknown" outside a checkout
func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

func build(verbose bool) error {
	if err := os.MkdirAll(distDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", distDir, err)
	}

	name := binName
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	outputPath := filepath.Join(distDir, name)

	ldflags := fmt.Sprintf("-s -w -X %s/pkg/contracts.BuildTime=%s -X %s/pkg/contracts.GitCommit=%s",
		module, time.Now().UTC().Format(time.RFC3339), module, gitCommit())

	args := []string{"build", "-trimpath", "-ldflags", ldflags, "-o", outputPath, "./cmd/" + binName}
	if verbose {
		args = append([]string{"build", "-v"}, args[1:]...)
	}
	printInfo("go " + strings.Join(args, " "))

	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to build %s: %w", binName, err)
	}

	if info, err := os.Stat(outputPath); err == nil {
		printInfo(fmt.Sprintf("%s (%.1f MB)", outputPath, float64(info.Size())/1024/1024))
	}
	return nil
}

func runTests(verbose bool) error {
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("tests failed: %w", err)
	}
	return nil
}
