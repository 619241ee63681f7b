//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

var (
	name = "seclink"
)

func build(env map[string]string, output string) error {
	if err := os.Mkdir("output", 0700); err != nil && !os.IsExist(err) {
		return fmt.Errorf("failed to create output: %v", err)
	}

	// Nothing in the tree needs cgo.
	env["CGO_ENABLED"] = "0"

	return sh.RunWith(
		env,
		mg.GoCmd(), "build",
		"-o", filepath.Join("output", output),
		"-ldflags=-s -w "+flags(),
		"./bin/")
}

// Builds for the host platform.
func Build() error {
	return build(map[string]string{}, name)
}

func Linux() error {
	return build(map[string]string{
		"GOOS":   "linux",
		"GOARCH": "amd64",
	}, name+"-linux-amd64")
}

func Windows() error {
	return build(map[string]string{
		"GOOS":   "windows",
		"GOARCH": "amd64",
	}, name+"-windows-amd64.exe")
}

func Darwin() error {
	return build(map[string]string{
		"GOOS":   "darwin",
		"GOARCH": "arm64",
	}, name+"-darwin-arm64")
}

// Runs the unit tests with the race detector.
func Test() error {
	return sh.RunV(mg.GoCmd(), "test", "-race", "./...")
}

// Refreshes the golden fixtures after an intended output change.
func UpdateGolden() error {
	return sh.RunV(mg.GoCmd(), "test", "./session/...", "./console/...",
		"-update")
}

func Clean() error {
	return sh.Rm("output")
}

func flags() string {
	timestamp := time.Now().Format(time.RFC3339)
	return fmt.Sprintf(`-X "www.velocidex.com/golang/seclink/config.build_time=%s" -X "www.velocidex.com/golang/seclink/config.commit_hash=%s"`, timestamp, hash())
}

// hash returns the git hash for the current repo or "" if none.
func hash() string {
	hash, _ := sh.Output("git", "rev-parse", "--short", "HEAD")
	return hash
}
