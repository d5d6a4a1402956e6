//go:build ignore

// build.go - Lead Time Pulse build script
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: all, web, leadtime, clean, test, release

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
)

var (
	rootDir string
	distDir string

	// Executable names (key = cmd directory, value = output name)
	executables = map[string]string{
		"web":      "leadtime-web",
		"leadtime": "leadtime",
	}

	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

func init() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(fmt.Sprintf("Failed to get current directory: %v", err))
	}
	rootDir = cwd
	distDir = filepath.Join(rootDir, "dist")

	if _, err := os.Stat(filepath.Join(rootDir, "go.mod")); os.IsNotExist(err) {
		panic(fmt.Sprintf("go.mod not found in %s; run from the repository root", rootDir))
	}
}

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	printHeader()
	startTime := time.Now()

	switch *target {
	case "all":
		buildAll(*verbose, "-s -w")
	case "web", "leadtime":
		prepareDirectories(*verbose)
		buildExecutable(*target, "-s -w", *verbose)
	case "release":
		clean(*verbose)
		buildAll(*verbose, "-s -w -trimpath")
	case "clean":
		clean(*verbose)
	case "test":
		runTests(*verbose)
	default:
		showHelp()
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "      Lead Time Pulse - Build System      " + colorReset)
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func printWarning(msg string) {
	fmt.Printf("%s[WARNING]%s %s\n", colorYellow, colorReset, msg)
}

// Build all components
func buildAll(verbose bool, ldflags string) {
	printInfo("Building all components...")

	if err := exec.Command("go", "version").Run(); err != nil {
		printError("Go is not installed or not in PATH")
		os.Exit(1)
	}

	prepareDirectories(verbose)
	for name := range executables {
		buildExecutable(name, ldflags, verbose)
	}
	copyConfigFiles(verbose)

	printSuccess("All components built successfully!")
}

func buildExecutable(name, ldflags string, verbose bool) {
	exeName := executables[name]
	if runtime.GOOS == "windows" {
		exeName += ".exe"
	}
	printInfo(fmt.Sprintf("Building %s...", name))

	outputPath := filepath.Join(distDir, exeName)
	args := []string{"build"}
	if verbose {
		args = append(args, "-v")
	}
	if strings.Contains(ldflags, "-trimpath") {
		args = append(args, "-trimpath")
		ldflags = strings.TrimSpace(strings.ReplaceAll(ldflags, "-trimpath", ""))
	}
	ldflags += fmt.Sprintf(" -X leadtimecli/pkg/contracts.BuildTime=%s", time.Now().UTC().Format(time.RFC3339))
	if out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output(); err == nil {
		ldflags += " -X leadtimecli/pkg/contracts.GitCommit=" + strings.TrimSpace(string(out))
	}
	args = append(args, "-ldflags", ldflags, "-o", outputPath, "./cmd/"+name)

	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	if verbose {
		fmt.Printf("Running: go %s\n", strings.Join(args, " "))
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", name, err))
		os.Exit(1)
	}

	if info, err := os.Stat(outputPath); err == nil {
		sizeMB := float64(info.Size()) / 1024 / 1024
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", exeName, sizeMB))
	}
}

func runTests(verbose bool) {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Go tests failed: %v", err))
		os.Exit(1)
	}
	printSuccess("All tests passed")
}

func prepareDirectories(verbose bool) {
	for _, dir := range []string{distDir, filepath.Join(distDir, "logs"), filepath.Join(distDir, "output")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			printError(fmt.Sprintf("Failed to create %s: %v", dir, err))
			os.Exit(1)
		}
		if verbose {
			fmt.Printf("  Created: %s\n", dir)
		}
	}
}

// copyConfigFiles ships the optional YAML configuration next to the binaries.
func copyConfigFiles(verbose bool) {
	src := filepath.Join(rootDir, "leadtime.yaml")
	data, err := os.ReadFile(src)
	if os.IsNotExist(err) {
		return
	}
	if err != nil {
		printWarning(fmt.Sprintf("Failed to read %s: %v", src, err))
		return
	}
	dest := filepath.Join(distDir, "leadtime.yaml")
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		printWarning(fmt.Sprintf("Failed to copy configuration: %v", err))
		return
	}
	if verbose {
		fmt.Printf("  Copied: %s\n", dest)
	}
}

// Clean build artifacts and logs
func clean(verbose bool) {
	printInfo("Cleaning build artifacts and logs...")
	for _, dir := range []string{distDir, filepath.Join(rootDir, "logs")} {
		if verbose {
			fmt.Printf("  Removing: %s\n", dir)
		}
		if err := os.RemoveAll(dir); err != nil {
			printError(fmt.Sprintf("Failed to clean %s: %v", dir, err))
		}
	}
	printSuccess("Build artifacts cleaned")
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all        Build every binary (default)")
	fmt.Println("  web        Build the HTTP API server")
	fmt.Println("  leadtime   Build the batch report CLI")
	fmt.Println("  release    Clean, then build with -trimpath")
	fmt.Println("  clean      Remove dist/ and logs/")
	fmt.Println("  test       Run go test -race ./...")
}
