package main

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"
)

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	// Drain concurrently so large outputs cannot fill the pipe.
	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.Bytes()
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout
	out := <-done

	return string(out), fnErr
}

// assertJSON checks that output is valid JSON and decodes it into v
func assertJSON(t *testing.T, output string, v interface{}) {
	t.Helper()
	if err := json.Unmarshal([]byte(output), v); err != nil {
		t.Fatalf("output is not valid JSON: %v\nOutput: %s", err, output)
	}
}

// withFlags sets global flags for one test and restores them afterwards
func withFlags(t *testing.T, config string, asJSON bool) {
	t.Helper()
	oldConfig, oldJSON, oldQuiet, oldVerbose := configName, jsonOut, quiet, verbose
	configName, jsonOut, quiet, verbose = config, asJSON, false, false
	t.Cleanup(func() {
		configName, jsonOut, quiet, verbose = oldConfig, oldJSON, oldQuiet, oldVerbose
	})
}
