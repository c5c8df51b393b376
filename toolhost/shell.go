package toolhost

import (
	"bytes"
	"context"
	"log"
	"os/exec"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CommandArgs are the arguments of run_command.
type CommandArgs struct {
	Command string `json:"command" jsonschema:"a shell command like 'ls' or 'pwd'"`
}

// runCommand executes the command with sh -c in the workspace. It answers
// the standard output, or the standard error when there is no output, or
// the error message when there is neither.
func (t *tools) runCommand(ctx context.Context, req *mcp.CallToolRequest, args CommandArgs) (*mcp.CallToolResult, any, error) {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", args.Command)
	cmd.Dir = t.cfg.Workspace
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	log.Printf("run_command %q: %v", args.Command, err)

	switch {
	case stdout.Len() > 0:
		return textResult(stdout.String()), nil, nil
	case stderr.Len() > 0:
		return textResult(stderr.String()), nil, nil
	case err != nil:
		return textResult(err.Error()), nil, nil
	}
	return textResult(""), nil, nil
}
