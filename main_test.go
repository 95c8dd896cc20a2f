package main

import (
	"bytes"
	"io"
	"os"
	"testing"

	"blogapi/service"

	"github.com/stretchr/testify/assert"
)

func callMain() (int, string) {
	var exitCode int
	oldExit := exit
	defer func() { exit = oldExit }()
	exit = func(code int) {
		exitCode = code
		panic("exit")
	}

	var buf bytes.Buffer
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	outputDone := make(chan struct{})
	go func() {
		_, _ = io.Copy(&buf, r)
		close(outputDone)
	}()

	func() {
		defer func() {
			if r := recover(); r != nil && r != "exit" {
				panic(r)
			}
		}()
		RealMain()
	}()

	w.Close()
	os.Stdout = oldStdout
	<-outputDone

	return exitCode, buf.String()
}

func TestRealMain(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	tests := []struct {
		name           string
		args           []string
		expectedOutput string
	}{
		{
			name:           "help command",
			args:           []string{"blogapi", "help"},
			expectedOutput: "Usage: blogapi [--config <file>] <command>",
		},
		{
			name:           "version command",
			args:           []string{"blogapi", "version"},
			expectedOutput: "blogapi version " + service.Version,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			exitCode, output := callMain()

			assert.Contains(t, output, tt.expectedOutput)
			assert.Equal(t, 0, exitCode)
		})
	}
}
